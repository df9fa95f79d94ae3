package ctrl

import (
	"errors"
	"time"

	"datalogger-go/errcode"
	"datalogger-go/x/strconvx"
)

// Sentinel causes the storage collaborator may report. Matching one lets a
// failure message carry a corrective hint.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrNoFilesystem = errors.New("no filesystem")
	ErrDiskFailure  = errors.New("disk failure")
)

// commandTable is built once at controller construction.
func commandTable() []Command {
	return []Command{
		{Name: "setrtc", Help: "setrtc <DD> <MM> <YY> <hh> <mm> <ss>: set the real-time clock", Run: runSetRTC},
		{Name: "format", Help: "format [<volume>]: format the volume", Run: runFormat},
		{Name: "mount", Help: "mount [<volume>]: mount the volume", Run: runMount},
		{Name: "unmount", Help: "unmount [<volume>]: unmount the volume", Run: runUnmount},
		{Name: "getfree", Help: "getfree [<volume>]: report total/free space", Run: runGetFree},
		{Name: "ls", Help: "ls [<path>]: list files", Run: runLs},
		{Name: "cat", Help: "cat <file>: print file contents", Run: runCat},
		{Name: "help", Help: "help: show available commands", Run: runHelp},
	}
}

func optArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// setrtc parses six date/time fields. Fields are handed to the clock
// collaborator unvalidated; the two-digit year is offset into 2000+.
func runSetRTC(c *Controller, args []string) error {
	if len(args) < 6 {
		c.print("Missing argument\n")
		return errcode.MissingArgument
	}
	day, _ := strconvx.Atoi(args[0])
	month, _ := strconvx.Atoi(args[1])
	year, _ := strconvx.Atoi(args[2])
	hour, _ := strconvx.Atoi(args[3])
	min, _ := strconvx.Atoi(args[4])
	sec, _ := strconvx.Atoi(args[5])

	t := time.Date(year+2000, time.Month(month), day, hour, min, sec, 0, time.UTC)
	return c.clock.SetDateTime(t)
}

func runFormat(c *Controller, args []string) error {
	name := optArg(args)
	if err := c.storage.Format(name); err != nil {
		c.reportStorage("format", name, err)
		return err
	}
	return nil
}

func runMount(c *Controller, args []string) error {
	name := optArg(args)
	if err := c.storage.Mount(name); err != nil {
		c.reportStorage("mount", name, err)
		return err
	}
	v, _ := c.storage.Volume(name)
	c.print("SD ( ", v.Name, " ) mounted\n")
	// Keep the button path in agreement with what just happened.
	c.deb.SetToggle(ControlMount, true)
	return nil
}

func runUnmount(c *Controller, args []string) error {
	name := optArg(args)
	if err := c.storage.Unmount(name); err != nil {
		c.reportStorage("unmount", name, err)
		return err
	}
	v, _ := c.storage.Volume(name)
	c.print("SD ( ", v.Name, " ) unmounted\n")
	c.deb.SetToggle(ControlMount, false)
	return nil
}

func runGetFree(c *Controller, args []string) error {
	name := optArg(args)
	total, free, err := c.storage.FreeSpace(name)
	if err != nil {
		c.reportStorage("getfree", name, err)
		return err
	}
	c.print(strconvx.Utoa(total), " KiB total drive space.\n")
	c.print(strconvx.Utoa(free), " KiB available.\n")
	return nil
}

func runLs(c *Controller, args []string) error {
	path := optArg(args)
	v, err := c.storage.Volume("")
	if err != nil {
		c.reportStorage("ls", "", err)
		return err
	}
	entries, err := v.FS().List(path)
	if err != nil {
		c.reportStorage("ls", path, err)
		return err
	}
	if path == "" {
		path = "/"
	}
	c.print("Directory listing: ", path, "\n")
	for _, e := range entries {
		kind := "writable file"
		switch {
		case e.Dir:
			kind = "directory"
		case e.ReadOnly:
			kind = "read only file"
		}
		c.print(e.Name, " [", kind, "] [size=", strconvx.Itoa(int(e.Size)), "]\n")
	}
	return nil
}

// cat streams a file to the console without line numbering; the 'd'
// shortcut uses readFile below instead.
func runCat(c *Controller, args []string) error {
	if len(args) < 1 {
		c.print("Missing argument\n")
		return errcode.MissingArgument
	}
	v, err := c.storage.Volume("")
	if err != nil {
		c.reportStorage("cat", "", err)
		return err
	}
	f, err := v.FS().OpenFile(args[0], FlagRead)
	if err != nil {
		c.reportStorage("cat", args[0], err)
		return errcode.Wrap(errcode.DeviceError, "cat", err)
	}
	defer f.Close()

	var buf [128]byte
	for {
		n, err := f.Read(buf[:])
		if n > 0 {
			_, _ = c.port.Write(buf[:n])
		}
		if err != nil || n == 0 {
			break
		}
	}
	return nil
}

func runHelp(c *Controller, _ []string) error {
	c.printHelp()
	return nil
}

// readFile is the fancier viewer behind the 'd' shortcut: a name/size
// banner, and line numbers for small files.
func (c *Controller) readFile(path string) error {
	if path == "" {
		c.print("No filename given.\n")
		return errcode.MissingArgument
	}
	v, err := c.storage.Volume("")
	if err != nil {
		c.reportStorage("read", "", err)
		return err
	}
	f, err := v.FS().OpenFile(path, FlagRead)
	if err != nil {
		c.print("Could not open '", path, "'.\n")
		c.printStorageHint(err)
		return errcode.Wrap(errcode.DeviceError, "read", err)
	}
	defer f.Close()

	size := f.Size()
	c.print("\n=== FILE VIEW ===\n")
	c.print("Name: ", path, "\n")
	c.print("Size: ", strconvx.Itoa(int(size)), " bytes\n")
	c.print("Contents:\n")

	numbered := size < 2048
	line := 1
	col := 0
	var buf [128]byte
	for {
		n, err := f.Read(buf[:])
		if n > 0 {
			if !numbered {
				_, _ = c.port.Write(buf[:n])
			} else {
				for _, b := range buf[:n] {
					if col == 0 {
						c.print(strconvx.Itoa(line), ": ")
						line++
					}
					_, _ = c.port.Write([]byte{b})
					if b == '\n' {
						col = 0
					} else {
						col++
					}
				}
			}
		}
		if err != nil || n == 0 {
			break
		}
	}
	c.print("\n=== END ===\n")
	return nil
}

// reportStorage prints a human-readable failure plus any known cause hint.
func (c *Controller) reportStorage(op, target string, err error) {
	if errcode.Of(err) == errcode.UnknownVolume {
		c.print("Unknown volume: \"", target, "\"\n")
		return
	}
	c.print(op, " error: ", err.Error(), "\n")
	c.printStorageHint(err)
}

func (c *Controller) printStorageHint(err error) {
	switch {
	case errors.Is(err, ErrFileNotFound):
		c.print("File not found. Use 'c' to list available files.\n")
	case errors.Is(err, ErrNoFilesystem):
		c.print("No filesystem found. Use 'a' to mount the SD card.\n")
	case errors.Is(err, ErrDiskFailure):
		c.print("Disk error. Check the card connection.\n")
	default:
		c.print("Check that the card is mounted and the file exists.\n")
	}
}
