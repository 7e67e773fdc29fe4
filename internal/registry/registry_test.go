package registry_test

import (
	"testing"

	"github.com/vovakirdan/tui-grove/internal/config"
	_ "github.com/vovakirdan/tui-grove/internal/games/grove"
	_ "github.com/vovakirdan/tui-grove/internal/games/hillclimb"
	"github.com/vovakirdan/tui-grove/internal/registry"
)

func TestList(t *testing.T) {
	modes := registry.List()
	if len(modes) < 2 {
		t.Fatalf("List() returned %d modes, expected at least 2", len(modes))
	}
	for i := 1; i < len(modes); i++ {
		if modes[i-1].ID >= modes[i].ID {
			t.Errorf("List() not sorted: %q before %q", modes[i-1].ID, modes[i].ID)
		}
	}
	for _, m := range modes {
		if m.Title == "" {
			t.Errorf("mode %q has no title", m.ID)
		}
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"grove", false},
		{"hillclimb", false},
		{"pinball", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, err := registry.Create(tt.id, config.WorldConfig{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil && m.ID() != tt.id {
				t.Errorf("Create(%q).ID() = %q", tt.id, m.ID())
			}
			if registry.Exists(tt.id) == tt.wantErr {
				t.Errorf("Exists(%q) = %v, expected %v", tt.id, !tt.wantErr, !tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register with a taken id did not panic")
		}
	}()
	registry.Register("grove", nil)
}

func TestNewScheduler(t *testing.T) {
	s, err := registry.NewScheduler("grove", 7, registry.SchedulerOptions{
		Preset:   config.PresetFast,
		TickRate: 30,
	})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if !s.Config().Growth.Fast {
		t.Error("fast preset was not applied")
	}
	if got := s.World().TimeStep; got != 1.0/30 {
		t.Errorf("TimeStep = %v, expected %v", got, 1.0/30)
	}
	if err := s.Tick(); err != nil {
		t.Errorf("Tick() after NewScheduler error = %v", err)
	}

	if _, err := registry.NewScheduler("pinball", 7, registry.SchedulerOptions{}); err == nil {
		t.Error("NewScheduler(unknown) returned no error")
	}
}

func TestSchedulerFactorySeeds(t *testing.T) {
	factory := registry.SchedulerFactory(registry.SchedulerOptions{})
	a, err := factory("grove", 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := factory("grove", 1)
	if err != nil {
		t.Fatal(err)
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Hash() != sb.Hash() {
		t.Error("same seed produced different worlds")
	}
}
