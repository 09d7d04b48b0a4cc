package scenario

import (
	"fmt"

	"github.com/dpor-dev/dpor/access"
	"github.com/dpor-dev/dpor/engine"
	"go.starlark.net/starlark"
)

// builder accumulates the thread programs a script declares, one
// thread(...) block at a time. Starlark builtins below close over it.
type builder struct {
	prog    Program
	current int // index into prog.Threads of the thread currently executing its body, -1 if none
}

// Load parses and executes a scenario script, returning the declared
// Program. filename is used only for error messages.
func Load(src []byte, filename string) (*Program, error) {
	b := &builder{current: -1}

	predeclared := starlark.StringDict{
		"thread": starlark.NewBuiltin("thread", b.threadFn),
		"read":   starlark.NewBuiltin("read", b.readFn),
		"write":  starlark.NewBuiltin("write", b.writeFn),
		"lock":   starlark.NewBuiltin("lock", b.lockFn),
		"unlock": starlark.NewBuiltin("unlock", b.unlockFn),
		"spawn":  starlark.NewBuiltin("spawn", b.spawnFn),
		"join":   starlark.NewBuiltin("join", b.joinFn),
	}

	thread := &starlark.Thread{Name: filename}
	globals, err := starlark.ExecFile(thread, filename, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	if v, ok := globals["THREADS"]; ok {
		n, err := starlark.AsInt32(v)
		if err != nil {
			return nil, fmt.Errorf("scenario: THREADS: %w", err)
		}
		b.prog.NumThreads = n
	}

	if err := b.prog.validate(); err != nil {
		return nil, err
	}
	return &b.prog, nil
}

func (b *builder) threadFn(t *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var body starlark.Callable
	if err := starlark.UnpackArgs("thread", args, kwargs, "name", &name, "body", &body); err != nil {
		return nil, err
	}

	idx := len(b.prog.Threads)
	b.prog.Threads = append(b.prog.Threads, nil)

	prev := b.current
	b.current = idx
	_, err := starlark.Call(t, body, nil, nil)
	b.current = prev
	if err != nil {
		return nil, fmt.Errorf("thread %q: %w", name, err)
	}
	return starlark.None, nil
}

func (b *builder) appendStep(s Step) error {
	if b.current < 0 {
		return fmt.Errorf("must be called from inside a thread(...) body")
	}
	b.prog.Threads[b.current] = append(b.prog.Threads[b.current], s)
	return nil
}

func (b *builder) readFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return b.accessFn("read", access.Read, args, kwargs)
}

func (b *builder) writeFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return b.accessFn("write", access.Write, args, kwargs)
}

func (b *builder) accessFn(name string, kind access.Kind, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var obj int
	if err := starlark.UnpackArgs(name, args, kwargs, "obj", &obj); err != nil {
		return nil, err
	}
	if err := b.appendStep(Step{Access: &AccessStep{Object: engine.ObjectID(obj), Kind: kind}}); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return starlark.None, nil
}

func (b *builder) lockFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var l int
	if err := starlark.UnpackArgs("lock", args, kwargs, "l", &l); err != nil {
		return nil, err
	}
	ev := engine.NewLockAcquire(engine.LockID(l))
	if err := b.appendStep(Step{Sync: &ev}); err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}
	return starlark.None, nil
}

func (b *builder) unlockFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var l int
	if err := starlark.UnpackArgs("unlock", args, kwargs, "l", &l); err != nil {
		return nil, err
	}
	ev := engine.NewLockRelease(engine.LockID(l))
	if err := b.appendStep(Step{Sync: &ev}); err != nil {
		return nil, fmt.Errorf("unlock: %w", err)
	}
	return starlark.None, nil
}

func (b *builder) spawnFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var child int
	if err := starlark.UnpackArgs("spawn", args, kwargs, "child", &child); err != nil {
		return nil, err
	}
	ev := engine.NewThreadSpawn(engine.ThreadID(child))
	if err := b.appendStep(Step{Sync: &ev}); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	return starlark.None, nil
}

func (b *builder) joinFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var target int
	if err := starlark.UnpackArgs("join", args, kwargs, "target", &target); err != nil {
		return nil, err
	}
	ev := engine.NewThreadJoin(engine.ThreadID(target))
	if err := b.appendStep(Step{Sync: &ev}); err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	return starlark.None, nil
}
