package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    map[string]zerolog.Level
		wantErr bool
	}{
		{
			name: "empty",
			spec: "",
			want: map[string]zerolog.Level{},
		},
		{
			name: "single component",
			spec: "api=debug",
			want: map[string]zerolog.Level{"api": zerolog.DebugLevel},
		},
		{
			name: "multiple components",
			spec: "api=error,hmc=info",
			want: map[string]zerolog.Level{
				"api": zerolog.ErrorLevel,
				"hmc": zerolog.InfoLevel,
			},
		},
		{
			name: "all expands",
			spec: "all=warning",
			want: map[string]zerolog.Level{
				"api":     zerolog.WarnLevel,
				"hmc":     zerolog.WarnLevel,
				"console": zerolog.WarnLevel,
			},
		},
		{
			name: "later pair overrides all",
			spec: "all=info,hmc=debug",
			want: map[string]zerolog.Level{
				"api":     zerolog.InfoLevel,
				"hmc":     zerolog.DebugLevel,
				"console": zerolog.InfoLevel,
			},
		},
		{
			name: "case and spaces",
			spec: " API = Debug ",
			want: map[string]zerolog.Level{"api": zerolog.DebugLevel},
		},
		{name: "missing level", spec: "api", wantErr: true},
		{name: "bad component", spec: "db=debug", wantErr: true},
		{name: "bad level", spec: "api=verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseSpec: expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSpec: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSpec = %v, want %v", got, tt.want)
			}
			for comp, level := range tt.want {
				if got[comp] != level {
					t.Errorf("level[%s] = %v, want %v", comp, got[comp], level)
				}
			}
		})
	}
}

func TestSetupRejectsBadDestination(t *testing.T) {
	if err := Setup("api=debug", "file", ""); err == nil {
		t.Error("Setup: expected error for invalid destination")
	}
}

func TestSetupRejectsBadFacility(t *testing.T) {
	if err := Setup("api=debug", DestSyslog, "mail"); err == nil {
		t.Error("Setup: expected error for invalid facility")
	}
}

func TestComponentUnconfiguredIsDisabled(t *testing.T) {
	loggers = map[string]zerolog.Logger{}
	lg := Component(ComponentAPI)
	if lg.GetLevel() != zerolog.Disabled {
		t.Errorf("unconfigured component level = %v, want disabled", lg.GetLevel())
	}
}

func TestSetupConfiguresComponents(t *testing.T) {
	t.Cleanup(func() { loggers = map[string]zerolog.Logger{} })

	if err := Setup("api=debug,hmc=error", DestNone, ""); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := Component(ComponentAPI).GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("api level = %v, want debug", got)
	}
	if got := Component(ComponentHMC).GetLevel(); got != zerolog.ErrorLevel {
		t.Errorf("hmc level = %v, want error", got)
	}
	if got := Component(ComponentConsole).GetLevel(); got != zerolog.Disabled {
		t.Errorf("console level = %v, want disabled", got)
	}
}
