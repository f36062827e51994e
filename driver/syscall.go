package driver

// RISC-V Linux syscall numbers this driver services, from the generic
// syscall table shared by every modern Linux port (riscv64 included).
const (
	sysRead      = 63
	sysWrite     = 64
	sysClose     = 57
	sysExit      = 93
	sysExitGroup = 94
)

// ExitError is returned by Run when the guest called exit or
// exit_group; Code is the guest-supplied exit status.
type ExitError struct {
	Code int32
}

func (e *ExitError) Error() string {
	return "guest exited"
}

// handleECALL services a Linux syscall per the riscv64 ABI: the
// syscall number is in a7 (x17), arguments in a0-a5 (x10-x15), and the
// return value is written back into a0 (x10). It returns a non-nil
// error only for exit/exit_group, which the Run loop treats as a
// normal end of execution.
func (d *Driver) handleECALL() error {
	hart := d.hart
	num := hart.ReadReg(17)
	a0 := hart.ReadReg(10)
	a1 := hart.ReadReg(11)
	a2 := hart.ReadReg(12)

	switch num {
	case sysRead:
		buf := make([]byte, a2)
		n, err := d.fds.Read(a0, buf)
		if err != nil && n == 0 {
			hart.WriteReg(10, negErrno)
			return nil
		}
		for i := 0; i < n; i++ {
			if werr := d.bus.Store8(a1+uint64(i), buf[i]); werr != nil {
				break
			}
		}
		hart.WriteReg(10, uint64(n))

	case sysWrite:
		buf := make([]byte, a2)
		for i := range buf {
			b, _ := d.bus.Load8(a1 + uint64(i))
			buf[i] = b
		}
		n, err := d.fds.Write(a0, buf)
		if err != nil {
			hart.WriteReg(10, negErrno)
			return nil
		}
		hart.WriteReg(10, uint64(n))

	case sysClose:
		if err := d.fds.Close(a0); err != nil {
			hart.WriteReg(10, negErrno)
			return nil
		}
		hart.WriteReg(10, 0)

	case sysExit, sysExitGroup:
		return &ExitError{Code: int32(a0)}

	default:
		// Unrecognized syscalls report -ENOSYS rather than faulting the
		// core; the guest decides how to react.
		hart.WriteReg(10, negErrno)
	}
	return nil
}

// negErrno stands in for a generic negative errno (-38, ENOSYS) cast to
// its unsigned 64-bit register representation. This driver does not
// model the full errno space; unsupported operations all report the
// same generic failure.
const negErrno = ^uint64(38) + 1
