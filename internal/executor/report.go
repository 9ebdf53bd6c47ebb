package executor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/panos-tools/dpmigrate/models"
)

// Report is the outcome of executing a change set: the ordered plan, the
// prefix that was actually applied, its inverse in undo order, and the
// failing operation if the run halted early.
type Report struct {
	// ID uniquely identifies this execution.
	ID string

	// DryRun indicates no mutation was attempted.
	DryRun bool

	// Planned is the full change set in apply order.
	Planned models.ChangeSet

	// Applied is the prefix of Planned that succeeded.
	Applied models.ChangeSet

	// Inverse undoes Applied, in reverse order.
	Inverse models.ChangeSet

	// Failed is the operation that halted the run, if any.
	Failed *models.Op

	// Err is the store error for Failed.
	Err error
}

// Empty reports whether there was nothing to do.
func (r *Report) Empty() bool {
	return r.Planned.Empty()
}

// Styles for plan output. The action/object/location color split mirrors the
// operator-facing output of the 1.2 tooling.
var (
	actionStyle   = lipgloss.NewStyle().Bold(true)
	objectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Render formats the report for the operator. In dry-run mode it is the plan
// that would be applied; otherwise it summarizes what happened.
func (r *Report) Render() string {
	var b strings.Builder

	if r.Empty() {
		b.WriteString("No changes made\n")
		return b.String()
	}

	if r.DryRun {
		fmt.Fprintf(&b, "Plan: %d operation(s), none applied (dry run)\n", r.Planned.Len())
		for _, op := range r.Planned.Ops {
			b.WriteString("  " + renderOp(op) + "\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Applied %d of %d operation(s)\n", r.Applied.Len(), r.Planned.Len())
	for _, op := range r.Applied.Ops {
		b.WriteString("  " + renderOp(op) + "\n")
	}
	if r.Failed != nil {
		b.WriteString(failStyle.Render("FAILED") + " " + renderOp(*r.Failed) + "\n")
		fmt.Fprintf(&b, "  %v\n", r.Err)
		fmt.Fprintf(&b, "  %d operation(s) not attempted; re-run the phase to resume\n",
			r.Planned.Len()-r.Applied.Len()-1)
	}
	return b.String()
}

func renderOp(op models.Op) string {
	verb := actionStyle.Render(verbFor(op))
	loc := locationStyle.Render(op.Path.String())

	switch op.Type {
	case models.OpCreateFolder, models.OpDeleteFolder:
		return fmt.Sprintf("%s %s folder %s in %s",
			verb, keyStyle.Render(string(op.Folder.Kind)), objectStyle.Render(op.Folder.Name), loc)
	case models.OpRenameFolder:
		return fmt.Sprintf("%s %s: %s -> %s",
			verb, loc, keyStyle.Render(string(op.FromKind)), keyStyle.Render(string(op.ToKind)))
	case models.OpAddParameter, models.OpRemoveParameter:
		return fmt.Sprintf("%s parameter %s=%s at %s",
			verb, keyStyle.Render(op.Param.Key), objectStyle.Render(op.Param.Value), loc)
	case models.OpAddReference, models.OpRemoveReference:
		return fmt.Sprintf("%s %s reference -> %s at %s",
			verb, keyStyle.Render(op.Ref.Key), objectStyle.Render(op.Ref.Target), loc)
	case models.OpUpdateCluster:
		return fmt.Sprintf("%s cluster %s: %s -> %s",
			verb, loc, keyStyle.Render(op.FromPackage), keyStyle.Render(op.ToPackage))
	default:
		return op.Describe()
	}
}

func verbFor(op models.Op) string {
	switch op.Type {
	case models.OpCreateFolder:
		return "Create"
	case models.OpDeleteFolder:
		return "Delete"
	case models.OpRenameFolder:
		return "Rename"
	case models.OpAddParameter, models.OpAddReference:
		return "Add"
	case models.OpRemoveParameter, models.OpRemoveReference:
		return "Remove"
	case models.OpUpdateCluster:
		return "Update"
	default:
		return string(op.Type)
	}
}
