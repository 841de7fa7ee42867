package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterResult exposes res as a global 'result' object: a read/write 'text'
// property, confidence() and wordCount() functions, and word(i) returning a
// word object of the same shape (or null when out of range).
func (e *GojaEngine) RegisterResult(res ResultDOM) error {
	obj := e.vm.NewObject()
	obj.DefineAccessorProperty("text",
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.vm.ToValue(res.GetText())
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				res.SetText(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_TRUE, // Configurable
		goja.FLAG_TRUE, // Enumerable
	)

	if err := obj.Set("confidence", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(res.GetConfidence())
	}); err != nil {
		return err
	}
	if err := obj.Set("wordCount", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(res.WordCount())
	}); err != nil {
		return err
	}
	if err := obj.Set("word", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		idx := int(call.Arguments[0].ToInteger())
		word, err := res.GetWord(idx)
		if err != nil || word == nil {
			return goja.Null()
		}
		return e.wordObject(word)
	}); err != nil {
		return err
	}

	return e.vm.Set("result", obj)
}

func (e *GojaEngine) wordObject(word WordProxy) goja.Value {
	obj := e.vm.NewObject()
	obj.DefineAccessorProperty("text",
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.vm.ToValue(word.GetText())
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				word.SetText(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_TRUE,
		goja.FLAG_TRUE,
	)
	obj.Set("confidence", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(word.GetConfidence())
	})
	return obj
}
