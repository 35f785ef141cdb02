package functions

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/tcpspec/internal/protocol/beginex"
)

// Prefix qualifies every registered function name.
const Prefix = "tcp"

var (
	ErrFunctionExists  = errors.New("function already registered")
	ErrUnknownFunction = errors.New("unknown function")
	ErrInvalidFunction = errors.New("invalid function")
	ErrArguments       = errors.New("invalid arguments")
)

// Function is a named entry point taking string arguments.
type Function struct {
	Name   string
	Params []string
	Call   func(args []string) ([]byte, error)
}

// Registry maps qualified names like "tcp:beginEx" to functions.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Function)}
}

// Qualify adds the prefix to a bare name.
func Qualify(name string) string {
	if strings.HasPrefix(name, Prefix+":") {
		return name
	}
	return Prefix + ":" + name
}

func (r *Registry) Register(fn Function) error {
	if strings.TrimSpace(fn.Name) == "" || fn.Call == nil {
		return fmt.Errorf("%w: name and call are required", ErrInvalidFunction)
	}
	name := Qualify(fn.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %s", ErrFunctionExists, name)
	}
	fn.Name = name
	r.items[name] = fn
	return nil
}

// Get resolves a name with or without the prefix.
func (r *Registry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.items[Qualify(name)]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Invoke(name string, args ...string) ([]byte, error) {
	fn, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, Qualify(name))
	}
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%w: %s(%s) takes %d arguments, got %d",
			ErrArguments, fn.Name, strings.Join(fn.Params, ", "), len(fn.Params), len(args))
	}
	out, err := fn.Call(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}
	return out, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry holding the built-in tcp functions.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		for _, fn := range builtins() {
			if err := defaultReg.Register(fn); err != nil {
				panic(err)
			}
		}
	})
	return defaultReg
}

// Invoke calls a built-in function by name.
func Invoke(name string, args ...string) ([]byte, error) {
	return Default().Invoke(name, args...)
}

func builtins() []Function {
	return []Function{
		{
			Name:   "encodeAddress",
			Params: []string{"text", "isHost"},
			Call: func(args []string) ([]byte, error) {
				isHost, err := parseBool("isHost", args[1])
				if err != nil {
					return nil, err
				}
				return EncodeAddress(args[0], isHost)
			},
		},
		{
			Name:   "beginExtRemoteAddress",
			Params: []string{"address", "port"},
			Call: func(args []string) ([]byte, error) {
				port, err := parseInt("port", args[1])
				if err != nil {
					return nil, err
				}
				return BeginExtRemoteAddress(args[0], port)
			},
		},
		{
			Name:   "beginExtRemoteHost",
			Params: []string{"host", "port"},
			Call: func(args []string) ([]byte, error) {
				port, err := parseInt("port", args[1])
				if err != nil {
					return nil, err
				}
				return BeginExtRemoteHost(args[0], port)
			},
		},
		{
			Name:   "beginEx",
			Params: []string{"typeId", "localAddress", "localPort", "remoteAddress", "remotePort"},
			Call: func(args []string) ([]byte, error) {
				return callBeginEx(args, false)
			},
		},
		{
			Name:   "beginExHost",
			Params: []string{"typeId", "localAddress", "localPort", "remoteHost", "remotePort"},
			Call: func(args []string) ([]byte, error) {
				return callBeginEx(args, true)
			},
		},
	}
}

func callBeginEx(args []string, remoteHost bool) ([]byte, error) {
	typeID, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: typeId %q: %v", ErrArguments, args[0], err)
	}
	localPort, err := parseInt("localPort", args[2])
	if err != nil {
		return nil, err
	}
	remotePort, err := parseInt("remotePort", args[4])
	if err != nil {
		return nil, err
	}
	id := int32(typeID)
	c := beginex.Config{
		Shape:        beginex.ShapeCanonical,
		TypeID:       &id,
		LocalAddress: args[1],
		LocalPort:    localPort,
		RemotePort:   remotePort,
	}
	if remoteHost {
		host := args[3]
		c.RemoteHost = &host
	} else {
		c.RemoteAddress = args[3]
	}
	return BuildBeginExtension(c)
}

func parseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrArguments, name, raw)
	}
	return v, nil
}

func parseBool(name, raw string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s %q is not a boolean", ErrArguments, name, raw)
	}
	return v, nil
}
