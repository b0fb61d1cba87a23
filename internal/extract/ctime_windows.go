//go:build windows

package extract

import (
	"os"
	"syscall"
	"time"
)

// changeTime returns the file creation time.
func changeTime(_ string, info os.FileInfo) time.Time {
	if attr, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, attr.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
