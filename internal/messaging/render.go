package messaging

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// RenderText flattens a routing result into plain text for channels
// without native menus. Menus render as numbered option lists so the user
// can reply with a number or an option title; emergencies render the
// header plus the ordered action list.
func RenderText(result models.RoutingResult) string {
	switch result.Kind {
	case models.KindMenu:
		return renderMenu(result)
	case models.KindEmergency:
		return renderEmergency(result.Emergency)
	default:
		return result.Text
	}
}

func renderMenu(result models.RoutingResult) string {
	var b strings.Builder
	if result.Text != "" {
		b.WriteString(result.Text)
		b.WriteString("\n\n")
	}
	if result.Menu == nil {
		return b.String()
	}
	b.WriteString(result.Menu.Prompt)
	for i, opt := range result.Menu.Options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, opt.Title)
		if opt.Description != "" {
			fmt.Fprintf(&b, " - %s", opt.Description)
		}
	}
	if result.SupportContact {
		b.WriteString("\n\nSi necesitas ayuda adicional, contacta a soporte.")
	}
	return b.String()
}

func renderEmergency(payload *models.EmergencyPayload) string {
	if payload == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(payload.Message)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(payload.ImmediateActions, "\n"))
	return b.String()
}
