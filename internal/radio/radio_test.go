package radio

import "testing"

func TestChannelRadioDelivers(t *testing.T) {
	r := NewChannelRadio(4)
	r.Broadcast(Event{Kind: StageEntered, Stage: "Building"})
	r.Broadcast(Event{Kind: FabricBuilt})

	e := <-r.Events()
	if e.Kind != StageEntered || e.Stage != "Building" {
		t.Errorf("unexpected first event: %v", e)
	}
	e = <-r.Events()
	if e.Kind != FabricBuilt {
		t.Errorf("unexpected second event: %v", e)
	}
}

func TestChannelRadioDropsWhenFull(t *testing.T) {
	r := NewChannelRadio(1)
	r.Broadcast(Event{Kind: StageEntered, Stage: "first"})
	// The buffer is full; this must drop rather than block.
	r.Broadcast(Event{Kind: StageEntered, Stage: "second"})

	e := <-r.Events()
	if e.Stage != "first" {
		t.Errorf("expected the first event to survive, got %v", e)
	}
	select {
	case e := <-r.Events():
		t.Errorf("expected overflow to be dropped, got %v", e)
	default:
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event    Event
		expected string
	}{
		{Event{Kind: StageEntered, Stage: "Viewing"}, "StageEntered(Viewing)"},
		{Event{Kind: FabricBuilt}, "FabricBuilt"},
		{Event{Kind: DisableConvergence}, "DisableConvergence"},
		{Event{Kind: Error, ErrorKind: "OvenBadStrain", Message: "nope"}, "Error(OvenBadStrain: nope)"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
