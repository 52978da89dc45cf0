//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const dwmwaUseImmersiveDarkMode = 20

// applyWindowChrome switches the title bar to dark mode on Windows 10+
func applyWindowChrome(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	var enabled int32 = 1
	procDwmSetWindowAttribute.Call(
		uintptr(unsafe.Pointer(hwnd)),
		dwmwaUseImmersiveDarkMode,
		uintptr(unsafe.Pointer(&enabled)),
		unsafe.Sizeof(enabled),
	)
}
