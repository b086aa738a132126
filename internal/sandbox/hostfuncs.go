package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tetratelabs/wazero/api"

	"github.com/moonrepo/protohost/internal/hostexec"
	"github.com/moonrepo/protohost/internal/protolog"
)

// hostModuleName is the WASM import module name plugins call into,
// per spec.md §4.5's host function table.
const hostModuleName = "proto"

// ensureHostModuleLocked registers the "proto" host module once per
// Runtime. Every exported function reads its active container from
// r.active, set by Runtime.call before each guest invocation, so the
// one registration serves every tool id's container. Callers must hold
// r.mu.
func (r *Runtime) ensureHostModuleLocked(ctx context.Context) error {
	if r.hostRegistered {
		return nil
	}

	builder := r.runtime.NewHostModuleBuilder(hostModuleName)

	builder.NewFunctionBuilder().WithFunc(r.hostExecCommand).Export("exec_command")
	builder.NewFunctionBuilder().WithFunc(r.hostToVirtualPath).Export("to_virtual_path")
	builder.NewFunctionBuilder().WithFunc(r.hostFromVirtualPath).Export("from_virtual_path")
	builder.NewFunctionBuilder().WithFunc(r.hostGetEnvVar).Export("get_env_var")
	builder.NewFunctionBuilder().WithFunc(r.hostSetEnvVar).Export("set_env_var")
	builder.NewFunctionBuilder().WithFunc(r.hostLog).Export("host_log")
	builder.NewFunctionBuilder().WithFunc(r.hostSendRequest).Export("send_request")

	if _, err := builder.Instantiate(ctx); err != nil {
		return err
	}
	r.hostRegistered = true
	return nil
}

// respondJSON marshals v and writes it into m's memory via m's own
// "alloc" export, returning the packed (ptr<<32 | len) result every
// host function uses to hand data back to the guest.
func respondJSON(ctx context.Context, m api.Module, v any) uint64 {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	alloc := m.ExportedFunction("alloc")
	if alloc == nil {
		return 0
	}
	results, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0
	}
	ptr := uint32(results[0])
	if len(data) > 0 && !m.Memory().Write(ptr, data) {
		return 0
	}
	return uint64(ptr)<<32 | uint64(len(data))
}

// readRequest decodes the JSON request a guest wrote at (ptr, length)
// in its own memory m.
func readRequest(m api.Module, ptr, length uint32, v any) error {
	data, ok := m.Memory().Read(ptr, length)
	if !ok {
		return errors.New("reading host call request: out of bounds")
	}
	return json.Unmarshal(data, v)
}

type execCommandRequest struct {
	Command    string            `json:"command"`
	Args       []string          `json:"args"`
	Env        map[string]string `json:"env"`
	WorkingDir string            `json:"working_dir"`
	Stream     bool              `json:"stream"`
}

type execCommandResponse struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Error    string `json:"error,omitempty"`
}

// hostExecCommand backs exec_command (spec.md §4.5): commands are
// looked up on the host PATH via hostexec.Runner; missing commands
// fail with a MissingCommand-tagged error string.
func (r *Runtime) hostExecCommand(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req execCommandRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return respondJSON(ctx, m, execCommandResponse{Error: err.Error()})
	}

	c := r.active
	if c == nil || c.config.Runner == nil {
		return respondJSON(ctx, m, execCommandResponse{Error: "exec_command unavailable"})
	}

	result, err := c.config.Runner.Run(ctx, req.Command, req.Args...)
	if err != nil {
		if errors.Is(err, hostexec.ErrCommandNotFound) {
			return respondJSON(ctx, m, execCommandResponse{Error: "MissingCommand: " + req.Command})
		}
		return respondJSON(ctx, m, execCommandResponse{Error: err.Error()})
	}

	if req.Stream && c.config.Logger != nil {
		c.config.Logger.WithPlugin(string(c.id)).Info(ctx, result.Stdout)
	}

	return respondJSON(ctx, m, execCommandResponse{
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	})
}

type pathRequest struct {
	Path string `json:"path"`
}

type pathResponse struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// hostToVirtualPath backs to_virtual_path.
func (r *Runtime) hostToVirtualPath(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req pathRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return respondJSON(ctx, m, pathResponse{Error: err.Error()})
	}
	c := r.active
	if c == nil || c.config.Paths == nil {
		return respondJSON(ctx, m, pathResponse{Error: "path map unavailable"})
	}
	vp, err := c.config.Paths.ToVirtual(req.Path)
	if err != nil {
		return respondJSON(ctx, m, pathResponse{Error: err.Error()})
	}
	return respondJSON(ctx, m, pathResponse{Path: vp})
}

// hostFromVirtualPath backs from_virtual_path.
func (r *Runtime) hostFromVirtualPath(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req pathRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return respondJSON(ctx, m, pathResponse{Error: err.Error()})
	}
	c := r.active
	if c == nil || c.config.Paths == nil {
		return respondJSON(ctx, m, pathResponse{Error: "path map unavailable"})
	}
	real, err := c.config.Paths.ToReal(req.Path)
	if err != nil {
		return respondJSON(ctx, m, pathResponse{Error: err.Error()})
	}
	return respondJSON(ctx, m, pathResponse{Path: real})
}

type envGetRequest struct {
	Key string `json:"key"`
}

type envGetResponse struct {
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// hostGetEnvVar backs get_env_var: mediated access to the container's
// scoped environment map, never the host process environment.
func (r *Runtime) hostGetEnvVar(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req envGetRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return respondJSON(ctx, m, envGetResponse{})
	}
	c := r.active
	if c == nil {
		return respondJSON(ctx, m, envGetResponse{})
	}
	c.envMu.Lock()
	v, ok := c.config.Env[req.Key]
	c.envMu.Unlock()
	return respondJSON(ctx, m, envGetResponse{Value: v, Found: ok})
}

type envSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// hostSetEnvVar backs set_env_var.
func (r *Runtime) hostSetEnvVar(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req envSetRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return 0
	}
	c := r.active
	if c == nil {
		return 0
	}
	c.envMu.Lock()
	if c.config.Env == nil {
		c.config.Env = make(map[string]string)
	}
	c.config.Env[req.Key] = req.Value
	c.envMu.Unlock()
	return 0
}

type hostLogRequest struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// hostLog backs host_log: structured log emission tagged with the
// plugin id, routed through protolog.Logger.
func (r *Runtime) hostLog(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req hostLogRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return 0
	}
	c := r.active
	if c == nil || c.config.Logger == nil {
		return 0
	}

	fields := make([]protolog.Field, 0, len(req.Data))
	for k, v := range req.Data {
		fields = append(fields, protolog.F(k, v))
	}
	logger := c.config.Logger.WithPlugin(string(c.id)).With(fields...)

	switch req.Level {
	case "warn":
		logger.Warn(ctx, req.Message)
	case "error":
		logger.Error(ctx, req.Message)
	case "debug":
		logger.Debug(ctx, req.Message)
	default:
		logger.Info(ctx, req.Message)
	}
	return 0
}

type sendRequestRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

type sendRequestResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
	Error      string `json:"error,omitempty"`
}

// hostSendRequest backs send_request: subject to the container's HTTP
// egress allowlist, enforced inside httpclient.Client itself.
func (r *Runtime) hostSendRequest(ctx context.Context, m api.Module, ptr, length uint32) uint64 {
	var req sendRequestRequest
	if err := readRequest(m, ptr, length, &req); err != nil {
		return respondJSON(ctx, m, sendRequestResponse{Error: err.Error()})
	}
	c := r.active
	if c == nil || c.config.HTTP == nil {
		return respondJSON(ctx, m, sendRequestResponse{Error: "network access unavailable"})
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return respondJSON(ctx, m, sendRequestResponse{Error: err.Error()})
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.config.HTTP.Do(httpReq)
	if err != nil {
		return respondJSON(ctx, m, sendRequestResponse{Error: err.Error()})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return respondJSON(ctx, m, sendRequestResponse{Error: err.Error()})
	}

	return respondJSON(ctx, m, sendRequestResponse{StatusCode: resp.StatusCode, Body: body})
}
