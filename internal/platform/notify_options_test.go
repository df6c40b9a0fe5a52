package platform

import "testing"

func TestOptionDefaults(t *testing.T) {
	var o Options
	if o.appName() != DefaultAppName || o.timeout() != 5000 {
		t.Fatalf("defaults = %q %d", o.appName(), o.timeout())
	}
	o = Options{AppName: "Tutor", TimeoutMillis: 1500}
	if o.appName() != "Tutor" || o.timeout() != 1500 {
		t.Fatalf("overrides = %q %d", o.appName(), o.timeout())
	}
}

func TestUrgency(t *testing.T) {
	if got := (Options{}).urgency(); got != 1 {
		t.Fatalf("normal urgency = %d", got)
	}
	if got := (Options{Urgent: true}).urgency(); got != 2 {
		t.Fatalf("urgent urgency = %d", got)
	}
}
