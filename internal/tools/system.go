package tools

import (
	"os"
	"runtime"
	"time"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

// System groups the system_info/wait/current_time/env_* handlers. These
// have no security-gate dependency: they read process-local state, not
// arbitrary filesystem paths.
type System struct{}

// Info implements system_info: OS, architecture, CPU count, hostname.
func (System) Info(actor string, params map[string]interface{}) tooltypes.Result {
	hostname, _ := os.Hostname()
	return tooltypes.Ok(map[string]interface{}{
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"numCPU":       runtime.NumCPU(),
		"hostname":     hostname,
		"goVersion":    runtime.Version(),
	})
}

// Wait implements wait: sleeps for the given number of milliseconds.
func (System) Wait(actor string, params map[string]interface{}) tooltypes.Result {
	ms := optionalInt(params, "milliseconds", 0)
	if ms < 0 {
		ms = 0
	}
	if ms > 60_000 {
		ms = 60_000 // never let a single invocation block a worker goroutine past a minute
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return tooltypes.Ok(map[string]interface{}{"waitedMs": ms})
}

// CurrentTime implements current_time: RFC3339 and Unix-epoch forms.
func (System) CurrentTime(actor string, params map[string]interface{}) tooltypes.Result {
	now := time.Now()
	return tooltypes.Ok(map[string]interface{}{
		"iso8601": now.Format(time.RFC3339),
		"unixMs":  now.UnixMilli(),
	})
}

// EnvGet implements env_get.
func (System) EnvGet(actor string, params map[string]interface{}) tooltypes.Result {
	name, err := stringParam(params, "name")
	if err != nil {
		return tooltypes.Failf(err)
	}
	value, found := os.LookupEnv(name)
	return tooltypes.Ok(map[string]interface{}{"name": name, "value": value, "found": found})
}

// EnvSet implements env_set: scoped to this process's own environment,
// inherited by any child shell session started after the call.
func (System) EnvSet(actor string, params map[string]interface{}) tooltypes.Result {
	name, err := stringParam(params, "name")
	if err != nil {
		return tooltypes.Failf(err)
	}
	value, err := stringParam(params, "value")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if err := os.Setenv(name, value); err != nil {
		return tooltypes.Failf(err)
	}
	return tooltypes.Ok(map[string]interface{}{"name": name, "value": value})
}
