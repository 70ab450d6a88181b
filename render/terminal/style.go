package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Status colors: red for a rewrite, emerald for clean, slate otherwise.
	colorRedacted = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorClean    = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}
	colorIdle     = lipgloss.AdaptiveColor{Light: "#64748b", Dark: "#94a3b8"}

	// UI colors.
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorRule   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"} // purple
)

var (
	styleRedactedBadge = lipgloss.NewStyle().Foreground(colorRedacted).Bold(true)
	styleCleanBadge    = lipgloss.NewStyle().Foreground(colorClean).Bold(true)
	styleIdleBadge     = lipgloss.NewStyle().Foreground(colorIdle).Bold(true)

	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)

	styleAdded   = lipgloss.NewStyle().Foreground(colorClean)
	styleRemoved = lipgloss.NewStyle().Foreground(colorRedacted)

	styleRuleName   = lipgloss.NewStyle().Foreground(colorRule).Bold(true)
	styleRuleDetail = lipgloss.NewStyle().Foreground(colorDim)
	styleNote       = lipgloss.NewStyle().Foreground(colorBright).Italic(true)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)
