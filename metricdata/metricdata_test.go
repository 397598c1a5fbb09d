package metricdata

import "testing"

func TestIdentifier(t *testing.T) {
	cases := []struct {
		name, category, want string
	}{
		{"click", "ui", "ui.click"},
		{"click", "", "click"},
	}
	for _, c := range cases {
		d := New(c.name, c.category, []string{"metrics"}, Ping, false)
		if got := d.Identifier(); got != c.want {
			t.Errorf("Identifier() = %q, want %q", got, c.want)
		}
	}
}

func TestLifetimeSortOrder(t *testing.T) {
	if !User.Less(Application) {
		t.Error("User should sort before Application")
	}
	if !Application.Less(Ping) {
		t.Error("Application should sort before Ping")
	}
	if Ping.Less(User) {
		t.Error("Ping should not sort before User")
	}
}

func TestNewPanicsOnEmptyName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty name")
		}
	}()
	New("", "cat", []string{"metrics"}, Ping, false)
}

func TestNewPanicsOnEmptySendInPings(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty send_in_pings")
		}
	}()
	New("click", "ui", nil, Ping, false)
}
