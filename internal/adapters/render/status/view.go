package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/aicms-cli/internal/adapters/render/headless"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const lifetimeBarWidth = 24

type RenderOptions struct {
	Now     time.Time
	BaseURL string
}

// Render draws the stored session: who it belongs to and how much of the
// access token lifetime is left.
func Render(status application.SessionStatus, opts RenderOptions) (string, error) {
	return headless.Render(func() string {
		return renderView(status, opts, newStyles())
	})
}

func renderView(status application.SessionStatus, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("AI CMS Session")}
	if opts.BaseURL != "" {
		lines = append(lines, s.header.Render("backend: "+opts.BaseURL))
	}

	if !status.LoggedIn {
		lines = append(lines, s.empty.Render("Not logged in."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(renderSession(status, opts, s)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(status application.SessionStatus, opts RenderOptions, s styles) string {
	parts := []string{s.user.Render(userTitle(status))}

	if status.TokenType != "" {
		parts = append(parts, s.detail.Render("token: "+status.TokenType))
	}
	if !status.IssuedAt.IsZero() {
		parts = append(parts, s.detail.Render("issued: "+formatClock(status.IssuedAt, opts.Now)))
	}
	parts = append(parts, lifetimeLine(status, opts, s))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func userTitle(status application.SessionStatus) string {
	name := strings.TrimSpace(status.Username)
	switch {
	case name != "" && status.UserID != "":
		return fmt.Sprintf("Logged in as %s (%s)", name, status.UserID)
	case name != "":
		return "Logged in as " + name
	case status.UserID != "":
		return fmt.Sprintf("Logged in (user %s)", status.UserID)
	default:
		return "Logged in"
	}
}

func lifetimeLine(status application.SessionStatus, opts RenderOptions, s styles) string {
	label := s.key.Render("expires:")
	if status.ExpiresAt.IsZero() {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.detail.Render("unknown"))
	}

	if !opts.Now.IsZero() && status.Expired(opts.Now) {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			label, " ",
			s.detail.Render(formatClock(status.ExpiresAt, opts.Now)), " ",
			s.warning.Render("[expired]"),
		)
	}

	left := leftPercent(status, opts.Now)
	leftStyle := lipgloss.NewStyle().Foreground(interpolateColor(left, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		renderProgressBar(left, lifetimeBarWidth, s),
		" ",
		leftStyle.Render(fmt.Sprintf("%2.0f%% left", left)),
		" ",
		s.detail.Render(fmt.Sprintf("(%s)", formatExpiryRelative(status.ExpiresAt, opts.Now))),
	)
}

// leftPercent is the share of the issued-to-expiry window still ahead of now.
func leftPercent(status application.SessionStatus, now time.Time) float64 {
	if now.IsZero() || status.IssuedAt.IsZero() || !status.ExpiresAt.After(status.IssuedAt) {
		return 100
	}

	total := status.ExpiresAt.Sub(status.IssuedAt).Seconds()
	remaining := status.ExpiresAt.Sub(now).Seconds()
	return clampPercent(remaining / total * 100)
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatClock(at, now time.Time) string {
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := at.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return at.Format("15:04")
	}

	return at.Format("15:04 on 02 Jan")
}

func formatExpiryRelative(expiresAt, now time.Time) string {
	if now.IsZero() {
		return "at " + formatClock(expiresAt, now)
	}

	remaining := expiresAt.Sub(now)
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("in %d %s (%s)", minutes, plural(minutes, "minute"), expiresAt.Format("15:04"))
	}
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		return fmt.Sprintf("in %d %s (%s)", hours, plural(hours, "hour"), expiresAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	return fmt.Sprintf("in %d %s (%s)", days, plural(days, "day"), expiresAt.Format("15:04 on 02 Jan"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
