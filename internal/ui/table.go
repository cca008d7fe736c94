package ui

import (
	"fmt"
	"strings"

	pkgtypes "github.com/tdang/curfew/pkg/types"
)

var planWidths = []int{20, 24, 12, 12, 14}

// PrintPlanTable renders the dry-run view: every discovered instance and
// whether a run would stop or skip it.
func PrintPlanTable(instances []pkgtypes.Instance) {
	headers := []string{"ID", "Name", "State", "Type", "Action"}

	var sb strings.Builder
	writeBorder(&sb, planWidths, TopLeft, TopT, TopRight)
	writeHeaderRow(&sb, headers, planWidths)
	writeBorder(&sb, planWidths, LeftT, Cross, RightT)

	wouldStop := 0
	for _, inst := range instances {
		action := "stop"
		style := RunningStyle
		if inst.State.IsStopAdjacent() {
			action = "skip"
			style = StoppedStyle
		} else {
			wouldStop++
		}

		sb.WriteString(BorderStyle.Render(Vertical))
		writeCell(&sb, IDStyle.Render, inst.ID, planWidths[0])
		writeCell(&sb, NameStyle.Render, inst.Name, planWidths[1])
		writeCell(&sb, stateStyle(string(inst.State)).Render, string(inst.State), planWidths[2])
		writeCell(&sb, PlainStyle.Render, inst.Type, planWidths[3])
		writeCell(&sb, style.Render, action, planWidths[4])
		sb.WriteString("\n")
	}

	writeBorder(&sb, planWidths, BottomLeft, BottomT, BottomRight)
	fmt.Print(sb.String())
	fmt.Printf("  %d instances, %d would be stopped\n", len(instances), wouldStop)
}

var resultWidths = []int{20, 14, 10, 44}

// PrintOutcomeTable renders the per-instance results of a completed batch.
func PrintOutcomeTable(outcomes []pkgtypes.ShutdownOutcome) {
	headers := []string{"ID", "Prev State", "Result", "Error"}

	var sb strings.Builder
	writeBorder(&sb, resultWidths, TopLeft, TopT, TopRight)
	writeHeaderRow(&sb, headers, resultWidths)
	writeBorder(&sb, resultWidths, LeftT, Cross, RightT)

	for _, o := range outcomes {
		result := "stopped"
		style := RunningStyle
		switch {
		case o.Skipped():
			result = "skipped"
			style = StoppedStyle
		case !o.Succeeded:
			result = "failed"
			style = ErrorStyle
		}

		sb.WriteString(BorderStyle.Render(Vertical))
		writeCell(&sb, IDStyle.Render, o.InstanceID, resultWidths[0])
		writeCell(&sb, PlainStyle.Render, string(o.PreviousState), resultWidths[1])
		writeCell(&sb, style.Render, result, resultWidths[2])
		writeCell(&sb, MutedStyle.Render, o.Error, resultWidths[3])
		sb.WriteString("\n")
	}

	writeBorder(&sb, resultWidths, BottomLeft, BottomT, BottomRight)
	fmt.Print(sb.String())
}

func writeBorder(sb *strings.Builder, widths []int, left, mid, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

func writeHeaderRow(sb *strings.Builder, headers []string, widths []int) {
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range headers {
		writeCell(sb, HeaderStyle.Render, h, widths[i])
	}
	sb.WriteString("\n")
}

func writeCell(sb *strings.Builder, render func(...string) string, value string, width int) {
	sb.WriteString(render(" " + padRight(value, width) + " "))
	sb.WriteString(BorderStyle.Render(Vertical))
}
