//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import "golang.org/x/sys/unix"

func disableEcho(fd uintptr) (func(), error) {
	descriptor := int(fd)
	current, err := unix.IoctlGetTermios(descriptor, termiosGet)
	if err != nil {
		return nil, err
	}

	saved := *current
	silent := saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(descriptor, termiosSet, &silent); err != nil {
		return nil, err
	}
	return func() {
		_ = unix.IoctlSetTermios(descriptor, termiosSet, &saved)
	}, nil
}
