package shell

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/yllada/lexair-launcher/common"
)

// ProtocolVersion is the version of the command surface.
const ProtocolVersion = "1"

// Command names.
const (
	CmdGetInitialState     = "getInitialState"
	CmdAcceptPolicies      = "acceptPolicies"
	CmdExitApplication     = "exitApplication"
	CmdMinimizeApplication = "minimizeApplication"
	CmdGetLaunchMode       = "getLaunchMode"
	CmdSetLaunchMode       = "setLaunchMode"
	CmdSetLanguage         = "setLanguage"
	CmdOpenLauncher        = "openLauncher"
	CmdCloseLauncher       = "closeLauncher"
	CmdGetElapsedTime      = "getElapsedTime"
)

// Error kinds reported in CommandError.Kind.
const (
	KindValidation         = "validation"
	KindHost               = "host"
	KindUnknownCommand     = "unknown_command"
	KindUnsupportedVersion = "unsupported_version"
	KindBadArguments       = "bad_arguments"
)

// Request is one call from the presentation layer.
type Request struct {
	Version string          `json:"version,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is the result of a Request.
type Response struct {
	OK     bool          `json:"ok"`
	Result any           `json:"result,omitempty"`
	Error  *CommandError `json:"error,omitempty"`
}

// CommandError is a failed call.
type CommandError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *CommandError) Error() string {
	return e.Kind + ": " + e.Message
}

type setLaunchModeArgs struct {
	Mode   string `json:"mode"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

type setLanguageArgs struct {
	Language string `json:"language"`
}

type handler func(args json.RawMessage) (any, error)

// Bridge dispatches named commands to a Shell.
type Bridge struct {
	shell    *Shell
	handlers map[string]handler
}

// NewBridge creates a bridge for s.
func NewBridge(s *Shell) *Bridge {
	b := &Bridge{shell: s}
	b.handlers = map[string]handler{
		CmdGetInitialState: func(json.RawMessage) (any, error) {
			return s.GetInitialState(), nil
		},
		CmdAcceptPolicies: func(json.RawMessage) (any, error) {
			return s.AcceptPolicies(), nil
		},
		CmdExitApplication: func(json.RawMessage) (any, error) {
			s.ExitApplication()
			return nil, nil
		},
		CmdMinimizeApplication: func(json.RawMessage) (any, error) {
			return s.MinimizeApplication(), nil
		},
		CmdGetLaunchMode: func(json.RawMessage) (any, error) {
			return s.GetLaunchMode(), nil
		},
		CmdSetLaunchMode: func(raw json.RawMessage) (any, error) {
			var args setLaunchModeArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if err := s.SetLaunchMode(args.Mode, args.Width, args.Height); err != nil {
				return nil, err
			}
			return true, nil
		},
		CmdSetLanguage: func(raw json.RawMessage) (any, error) {
			var args setLanguageArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return s.SetLanguage(args.Language), nil
		},
		CmdOpenLauncher: func(json.RawMessage) (any, error) {
			if err := s.OpenLauncher(); err != nil {
				return nil, err
			}
			return true, nil
		},
		CmdCloseLauncher: func(json.RawMessage) (any, error) {
			return s.CloseLauncher(), nil
		},
		CmdGetElapsedTime: func(json.RawMessage) (any, error) {
			return s.GetElapsedTime(), nil
		},
	}
	return b
}

// Commands returns the supported command names in sorted order.
func (b *Bridge) Commands() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs req and never panics.
func (b *Bridge) Call(req Request) (resp Response) {
	if req.Version != "" && req.Version != ProtocolVersion {
		return failure(fmt.Errorf("%w: %q", common.ErrUnsupportedVersion, req.Version))
	}

	h, ok := b.handlers[req.Command]
	if !ok {
		return failure(fmt.Errorf("%w: %q", common.ErrUnknownCommand, req.Command))
	}

	defer func() {
		if r := recover(); r != nil {
			common.LogError("Command %s panicked: %v", req.Command, r)
			resp = failure(fmt.Errorf("%w: %s: %v", common.ErrHostPanic, req.Command, r))
		}
	}()

	common.LogDebug("Bridge call: %s", req.Command)
	result, err := h(req.Args)
	if err != nil {
		return failure(err)
	}
	return Response{OK: true, Result: result}
}

// CallJSON decodes a request document, runs it and encodes the response.
func (b *Bridge) CallJSON(data []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = failure(fmt.Errorf("%w: %v", common.ErrBadArguments, err))
	} else {
		resp = b.Call(req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(failure(err))
	}
	return out
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: missing arguments", common.ErrBadArguments)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBadArguments, err)
	}
	return nil
}

func failure(err error) Response {
	return Response{Error: &CommandError{Kind: errorKind(err), Message: err.Error()}}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidLaunchMode), errors.Is(err, common.ErrInvalidDimensions):
		return KindValidation
	case errors.Is(err, common.ErrUnknownCommand):
		return KindUnknownCommand
	case errors.Is(err, common.ErrUnsupportedVersion):
		return KindUnsupportedVersion
	case errors.Is(err, common.ErrBadArguments):
		return KindBadArguments
	default:
		return KindHost
	}
}
