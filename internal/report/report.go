// Package report renders a run result as the human-readable
// orchestration map. The layout is fixed-format text; the data it
// renders (task ids, dependency lists, subtask ids, output line order)
// comes straight from the result object and is order-preserving.
package report

import (
	"fmt"
	"strings"

	"nion/internal/types"
)

const rule = "======================================================================"

// Render formats a full run result.
func Render(result *types.Result) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString("NION ORCHESTRATION MAP\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Message: %s\n", result.Message.ID)
	fmt.Fprintf(&b, "From: %s (%s)\n", result.Message.Sender.Name, result.Message.Sender.Role)
	project := result.Message.Project
	if project == "" {
		project = "N/A"
	}
	fmt.Fprintf(&b, "Project: %s\n", project)
	b.WriteString("\n")

	b.WriteString(rule + "\n")
	b.WriteString("L1 PLAN\n")
	b.WriteString(rule + "\n")
	for _, task := range result.Plan.Tasks {
		fmt.Fprintf(&b, "[%s] → %s\n", task.ID, task.Target)
		fmt.Fprintf(&b, "Purpose: %s\n", task.Purpose)
		if len(task.DependsOn) > 0 {
			fmt.Fprintf(&b, "Depends On: %s\n", strings.Join(task.DependsOn, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("L2/L3 EXECUTION\n")
	b.WriteString(rule + "\n")
	b.WriteString("\n")
	for _, task := range result.ExecutedTasks {
		switch {
		case task.Target.Kind == types.TargetDomain:
			writeDomainTask(&b, task)
		case task.CrossCutting:
			writeCrossCuttingTask(&b, task)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func writeDomainTask(b *strings.Builder, task *types.Task) {
	fmt.Fprintf(b, "[%s] %s\n", task.ID, task.Target)
	for _, sub := range task.Subtasks {
		fmt.Fprintf(b, "└─▶ [%s] %s\n", sub.ID, sub.Target)
		fmt.Fprintf(b, "    Status: %s\n", sub.Status)
		if len(sub.Output) > 0 {
			b.WriteString("    Output:\n")
			for _, line := range sub.Output {
				fmt.Fprintf(b, "    • %s\n", line)
			}
		}
	}
}

func writeCrossCuttingTask(b *strings.Builder, task *types.Task) {
	fmt.Fprintf(b, "[%s] %s (Cross-Cutting)\n", task.ID, task.Target)
	fmt.Fprintf(b, "Status: %s\n", task.Status)
	if len(task.Output) > 0 {
		b.WriteString("Output:\n")
		for _, line := range task.Output {
			fmt.Fprintf(b, "• %s\n", line)
		}
	}
}
