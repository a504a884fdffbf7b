package tools

import "testing"

func TestInfoReportsOSAndArch(t *testing.T) {
	result := System{}.Info("test", nil)
	if !result.Success {
		t.Fatalf("Info failed: %+v", result)
	}
	if result.Extra["os"] == "" {
		t.Fatalf("expected non-empty os field")
	}
}

func TestEnvSetThenGetRoundTrip(t *testing.T) {
	sys := System{}
	set := sys.EnvSet("test", map[string]interface{}{"name": "SCREENCTL_TEST_VAR", "value": "42"})
	if !set.Success {
		t.Fatalf("EnvSet failed: %+v", set)
	}

	get := sys.EnvGet("test", map[string]interface{}{"name": "SCREENCTL_TEST_VAR"})
	if !get.Success || get.Extra["value"] != "42" || get.Extra["found"] != true {
		t.Fatalf("unexpected EnvGet result: %+v", get)
	}
}

func TestEnvGetMissingVariable(t *testing.T) {
	sys := System{}
	get := sys.EnvGet("test", map[string]interface{}{"name": "SCREENCTL_DEFINITELY_UNSET"})
	if !get.Success || get.Extra["found"] != false {
		t.Fatalf("expected found=false for unset variable, got %+v", get)
	}
}

func TestWaitSleepsRequestedMilliseconds(t *testing.T) {
	sys := System{}
	result := sys.Wait("test", map[string]interface{}{"milliseconds": float64(1)})
	if !result.Success {
		t.Fatalf("Wait failed: %+v", result)
	}
	if result.Extra["waitedMs"] != 1 {
		t.Fatalf("unexpected waitedMs: %+v", result.Extra)
	}
}

func TestCurrentTimeReturnsBothForms(t *testing.T) {
	sys := System{}
	result := sys.CurrentTime("test", nil)
	if !result.Success {
		t.Fatalf("CurrentTime failed: %+v", result)
	}
	if result.Extra["iso8601"] == "" || result.Extra["unixMs"] == nil {
		t.Fatalf("unexpected CurrentTime result: %+v", result.Extra)
	}
}
