package shell

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

func TestBridge_Commands(t *testing.T) {
	b := NewBridge(newFixture(t).shell)

	got := b.Commands()
	want := []string{
		CmdAcceptPolicies, CmdCloseLauncher, CmdExitApplication, CmdGetElapsedTime,
		CmdGetInitialState, CmdGetLaunchMode, CmdMinimizeApplication, CmdOpenLauncher,
		CmdSetLanguage, CmdSetLaunchMode,
	}
	sort.Strings(want)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
}

func TestBridge_Call(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantOK   bool
		wantKind string
	}{
		{"current version", Request{Version: ProtocolVersion, Command: CmdGetLaunchMode}, true, ""},
		{"empty version", Request{Command: CmdGetElapsedTime}, true, ""},
		{"future version", Request{Version: "2", Command: CmdGetLaunchMode}, false, KindUnsupportedVersion},
		{"unknown command", Request{Command: "format_disk"}, false, KindUnknownCommand},
		{"snake case is unknown", Request{Command: "get_launch_mode"}, false, KindUnknownCommand},
		{"invalid mode", Request{Command: CmdSetLaunchMode, Args: json.RawMessage(`{"mode":"tiled"}`)}, false, KindValidation},
		{"half dimensions", Request{Command: CmdSetLaunchMode, Args: json.RawMessage(`{"mode":"window","width":800}`)}, false, KindValidation},
		{"missing args", Request{Command: CmdSetLanguage}, false, KindBadArguments},
		{"malformed args", Request{Command: CmdSetLaunchMode, Args: json.RawMessage(`{"mode":`)}, false, KindBadArguments},
		{"wrong arg type", Request{Command: CmdSetLaunchMode, Args: json.RawMessage(`{"mode":"window","width":"wide","height":1}`)}, false, KindBadArguments},
		{"valid mode", Request{Command: CmdSetLaunchMode, Args: json.RawMessage(`{"mode":"window","width":1024,"height":768}`)}, true, ""},
		{"minimize without root", Request{Command: CmdMinimizeApplication}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBridge(newFixture(t).shell)

			resp := b.Call(tt.req)
			if resp.OK != tt.wantOK {
				t.Fatalf("Call() OK = %v, want %v (error %v)", resp.OK, tt.wantOK, resp.Error)
			}
			if tt.wantOK {
				if resp.Error != nil {
					t.Errorf("successful call carries error %v", resp.Error)
				}
				return
			}
			if resp.Error == nil || resp.Error.Kind != tt.wantKind {
				t.Errorf("Call() error = %v, want kind %q", resp.Error, tt.wantKind)
			}
		})
	}
}

func TestBridge_HostFailureKind(t *testing.T) {
	f := newFixture(t)
	f.host.createErr = errTest("display unavailable")
	b := NewBridge(f.shell)

	resp := b.Call(Request{Command: CmdOpenLauncher})
	if resp.OK || resp.Error == nil || resp.Error.Kind != KindHost {
		t.Errorf("Call(openLauncher) = %+v, want host error", resp)
	}
}

func TestBridge_CallJSON(t *testing.T) {
	f := newFixture(t)
	b := NewBridge(f.shell)

	out := b.CallJSON([]byte(`{"version":"1","command":"setLanguage","args":{"language":"de"}}`))
	var resp struct {
		OK     bool `json:"ok"`
		Result bool `json:"result"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, out)
	}
	if !resp.OK || !resp.Result {
		t.Errorf("setLanguage response = %s", out)
	}

	out = b.CallJSON([]byte(`{"command":"getInitialState"}`))
	var state struct {
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(out, &state); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"policiesAccepted", "launchMode", "windowWidth", "windowHeight", "language"} {
		if _, ok := state.Result[key]; !ok {
			t.Errorf("initial state missing key %q: %s", key, out)
		}
	}
	if state.Result["launchMode"] != nil {
		t.Errorf("unset launch mode should encode as null, got %v", state.Result["launchMode"])
	}
	if state.Result["language"] != "de" {
		t.Errorf("language = %v, want de", state.Result["language"])
	}

	out = b.CallJSON([]byte(`not json`))
	if !strings.Contains(string(out), KindBadArguments) {
		t.Errorf("malformed request response = %s, want %s", out, KindBadArguments)
	}
}

func TestBridge_RecoversPanics(t *testing.T) {
	f := newFixture(t)
	f.shell.SetRootWindow(&stubRoot{})
	b := NewBridge(f.shell)
	b.handlers["explode"] = func(json.RawMessage) (any, error) {
		panic("boom")
	}

	resp := b.Call(Request{Command: "explode"})
	if resp.OK || resp.Error == nil || resp.Error.Kind != KindHost {
		t.Errorf("Call() = %+v, want recovered host error", resp)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
