// pkg/reconcile/decide.go

// Package reconcile resolves whether prior installation state permits a
// fresh install, and performs the cleanup of a stale one when the operator
// consents.
package reconcile

import "github.com/CodeMonkeyCybersecurity/theke/pkg/probe"

// InstallDecision is the Reconciler's terminal verdict for the run.
type InstallDecision int

const (
	DecisionFresh InstallDecision = iota
	DecisionReuse
	DecisionCleanAndFresh
	DecisionAbort
)

func (d InstallDecision) String() string {
	switch d {
	case DecisionFresh:
		return "fresh"
	case DecisionReuse:
		return "reuse"
	case DecisionCleanAndFresh:
		return "clean-and-fresh"
	case DecisionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// UserChoice is the operator's answer when prior state is found.
type UserChoice int

const (
	// ChoiceNone means no choice was offered or given.
	ChoiceNone UserChoice = iota
	// ChoiceClean consents to removing the prior installation.
	ChoiceClean
	// ChoiceKeep keeps the prior installation and reconfigures on top of it.
	ChoiceKeep
	// ChoiceAbort declines to touch the host.
	ChoiceAbort
)

// Decide maps probed host state and the operator's choice to a terminal
// decision. A host with no trace of a prior installation is FRESH without
// any prompting; anything else requires explicit consent, and anything
// other than explicit consent aborts.
func Decide(p *probe.HostProbe, choice UserChoice) InstallDecision {
	if !p.HasInstallArtifacts() {
		return DecisionFresh
	}

	switch choice {
	case ChoiceClean:
		return DecisionCleanAndFresh
	case ChoiceKeep:
		return DecisionReuse
	default:
		return DecisionAbort
	}
}

// NeedsChoice reports whether Decide will require an operator choice for
// this probe, so the caller knows when to prompt.
func NeedsChoice(p *probe.HostProbe) bool {
	return p.HasInstallArtifacts()
}
