package plan

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	registerValidators()

	rg.GET("/boards/:slug/plans", handler.ListPlans)
	rg.POST("/boards/:slug/plans", handler.CreatePlan)

	plans := rg.Group("/plans")
	{
		plans.GET("/:id", handler.GetPlan)
		plans.PUT("/:id", handler.UpdatePlan)
		plans.PATCH("/:id/status", handler.UpdatePlanStatus)
		plans.DELETE("/:id", handler.DeletePlan)
	}
}

// registerValidators adds the "planstatus" binding tag.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("planstatus", func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		})
	})
}
