// pkg/reconcile/decide_test.go

package reconcile

import (
	"testing"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/probe"
	"github.com/stretchr/testify/assert"
)

func cleanProbe() *probe.HostProbe {
	return &probe.HostProbe{
		PortsInUse:         map[int]bool{9000: false, 9001: false},
		ConfigFilesPresent: map[string]bool{"/etc/default/minio": false},
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	withService := cleanProbe()
	withService.ServiceRegistered = true

	withPort := cleanProbe()
	withPort.PortsInUse[9000] = true

	withArtifact := cleanProbe()
	withArtifact.ConfigFilesPresent["/etc/default/minio"] = true

	tests := []struct {
		name   string
		probe  *probe.HostProbe
		choice UserChoice
		want   InstallDecision
	}{
		{"pristine host is fresh without prompting", cleanProbe(), ChoiceNone, DecisionFresh},
		{"pristine host ignores a stray clean choice", cleanProbe(), ChoiceClean, DecisionFresh},
		{"registered service with consent cleans", withService, ChoiceClean, DecisionCleanAndFresh},
		{"registered service with keep reuses", withService, ChoiceKeep, DecisionReuse},
		{"registered service without explicit consent aborts", withService, ChoiceNone, DecisionAbort},
		{"registered service with abort aborts", withService, ChoiceAbort, DecisionAbort},
		{"bound port alone requires a choice", withPort, ChoiceNone, DecisionAbort},
		{"config artifact alone requires a choice", withArtifact, ChoiceNone, DecisionAbort},
		{"config artifact with consent cleans", withArtifact, ChoiceClean, DecisionCleanAndFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Decide(tt.probe, tt.choice))
		})
	}
}

func TestNeedsChoice(t *testing.T) {
	t.Parallel()

	assert.False(t, NeedsChoice(cleanProbe()))

	p := cleanProbe()
	p.ServiceRegistered = true
	assert.True(t, NeedsChoice(p))
}
