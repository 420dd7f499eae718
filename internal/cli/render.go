package cli

import (
	"fmt"
	"strconv"
	"strings"

	"wishboard/internal/app/board"
	"wishboard/internal/app/plan"

	"github.com/charmbracelet/lipgloss"
)

const (
	noDate     = "Sin fecha"
	noLocation = "Sin ubicación"
	noCost     = "—"
	emptyState = "No hay planes que coincidan."
)

var (
	ColorAccent = lipgloss.Color("212")
	ColorDim    = lipgloss.Color("241")
	ColorFg     = lipgloss.Color("252")

	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorDim)

	StylePill = lipgloss.NewStyle().
			Foreground(ColorFg).
			Padding(0, 1)

	StylePillActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(ColorAccent).
			Padding(0, 1)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1).
			Width(60)

	StyleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyles = map[plan.Status]lipgloss.Style{
		plan.StatusWishlist: lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		plan.StatusPlanned:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		plan.StatusDone:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	}
)

var pillOrder = []plan.StatusFilter{
	plan.FilterAll,
	plan.StatusFilter(plan.StatusWishlist),
	plan.StatusFilter(plan.StatusPlanned),
	plan.StatusFilter(plan.StatusDone),
}

func filterLabel(f plan.StatusFilter) string {
	if f == plan.FilterAll {
		return "Todos"
	}
	return plan.Status(f).Label()
}

// RenderHeader renders the board title. The background settings only
// matter to graphical front-ends.
func RenderHeader(settings *board.Settings) string {
	title := "Planes"
	if settings != nil && settings.Title != "" {
		title = settings.Title
	}
	return StyleTitle.Render(title)
}

// RenderPills renders one pill per filter with its count over the full set.
func RenderPills(counts plan.Counts, active plan.StatusFilter) string {
	if active == "" {
		active = plan.FilterAll
	}
	pills := make([]string, 0, len(pillOrder))
	for _, f := range pillOrder {
		label := fmt.Sprintf("%s (%d)", filterLabel(f), counts.Of(f))
		if f == active {
			pills = append(pills, StylePillActive.Render(label))
			continue
		}
		pills = append(pills, StylePill.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pills...)
}

func RenderCard(p *plan.Plan) string {
	status := statusStyles[p.Status].Render(p.Status.Label())
	head := lipgloss.NewStyle().Bold(true).Render(p.Title) + "  " + status
	if p.Category != nil {
		head += "  " + StyleDim.Render(*p.Category)
	}

	lines := []string{head}
	if p.Description != nil {
		lines = append(lines, *p.Description)
	}
	lines = append(lines,
		fmt.Sprintf("Cuándo: %s", orDefault(p.WhenText, noDate)),
		fmt.Sprintf("Dónde: %s", orDefault(p.Location, noLocation)),
		fmt.Sprintf("Presupuesto: %s", FormatCost(p.EstCost)),
		fmt.Sprintf("Prioridad: %s", FormatPriority(p.Priority)),
		StyleDim.Render(p.ID),
	)
	return StyleCard.Render(strings.Join(lines, "\n"))
}

// RenderView renders the whole board screen.
func RenderView(settings *board.Settings, view plan.View, active plan.StatusFilter) string {
	var b strings.Builder
	b.WriteString(RenderHeader(settings))
	b.WriteString("\n")
	b.WriteString(RenderPills(view.Counts, active))
	b.WriteString("\n\n")

	if len(view.Plans) == 0 {
		b.WriteString(StyleDim.Render(emptyState))
		b.WriteString("\n")
		return b.String()
	}
	for _, p := range view.Plans {
		b.WriteString(RenderCard(p))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCost renders an amount without trailing zeros, or a dash when absent.
func FormatCost(cost *float64) string {
	if cost == nil {
		return noCost
	}
	return strconv.FormatFloat(*cost, 'f', -1, 64) + " €"
}

func FormatPriority(p int) string {
	if p < 1 || p > 3 {
		return strconv.Itoa(p)
	}
	return strings.Repeat("★", p) + strings.Repeat("☆", 3-p)
}

func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
