package runtime

import (
	"github.com/dop251/goja"

	"github.com/philippe-ths/tanks/internal/tankapi"
)

// bindTankAPI exposes handle to the sandbox as a "tank" global object
// built from explicit native closures rather than goja's reflection-
// based auto-binding — this keeps the optional-degrees argument on
// turnLeft/turnRight, and the implicit float/bool conversions on
// scan/shoot/random, under our control instead of goja's generic
// Go-value marshaling rules.
func bindTankAPI(vm *goja.Runtime, handle *tankapi.Handle) goja.Value {
	tank := vm.NewObject()

	tank.Set("turnLeft", func(call goja.FunctionCall) goja.Value {
		handle.TurnLeft(optionalFloat(call, 0))
		return goja.Undefined()
	})
	tank.Set("turnRight", func(call goja.FunctionCall) goja.Value {
		handle.TurnRight(optionalFloat(call, 0))
		return goja.Undefined()
	})
	tank.Set("moveForward", func(call goja.FunctionCall) goja.Value {
		handle.MoveForward()
		return goja.Undefined()
	})
	tank.Set("moveBackward", func(call goja.FunctionCall) goja.Value {
		handle.MoveBackward()
		return goja.Undefined()
	})
	tank.Set("scan", func(call goja.FunctionCall) goja.Value {
		a := call.Argument(0).ToFloat()
		b := call.Argument(1).ToFloat()
		return vm.ToValue(handle.Scan(a, b))
	})
	tank.Set("shoot", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(handle.Shoot())
	})
	tank.Set("log", func(call goja.FunctionCall) goja.Value {
		handle.Log(call.Argument(0).String())
		return goja.Undefined()
	})
	tank.Set("random", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(handle.Random())
	})

	vm.Set("tank", tank)
	return tank
}

func optionalFloat(call goja.FunctionCall, idx int) *float64 {
	if idx >= len(call.Arguments) || goja.IsUndefined(call.Arguments[idx]) {
		return nil
	}
	v := call.Arguments[idx].ToFloat()
	return &v
}
