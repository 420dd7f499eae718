package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Probe func(ctx context.Context) error

type probe struct {
	name  string
	check Probe
}

type HealthChecker struct {
	probes  []probe
	timeout time.Duration
}

func NewHealthChecker(db *gorm.DB, rdb *redis.Client) *HealthChecker {
	h := &HealthChecker{timeout: 2 * time.Second}
	if db != nil {
		h.Add("PostgreSQL", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
	if rdb != nil {
		h.Add("Redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return h
}

func (h *HealthChecker) Add(name string, check Probe) {
	h.probes = append(h.probes, probe{name: name, check: check})
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	services := make([]Service, 0, len(h.probes))
	overallStatus := "healthy"

	for _, p := range h.probes {
		service := Service{Name: p.name}
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		if err := p.check(pctx); err != nil {
			service.Status = "down"
			service.Message = err.Error()
			overallStatus = "degraded"
		} else {
			service.Status = "up"
		}
		cancel()
		services = append(services, service)
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
