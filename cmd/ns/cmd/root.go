// Package cmd implements the ns command line: boot an image file, wire up
// its device back-ends, and run it to completion or until a device halts
// it. Grounded on bradford-hamilton-chippy/cmd's cobra root+run layout.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/spf13/cobra"

	"github.com/cthulhuology/newscript/internal/device/audio"
	"github.com/cthulhuology/newscript/internal/device/display"
	"github.com/cthulhuology/newscript/internal/device/input"
	"github.com/cthulhuology/newscript/internal/device/network"
	"github.com/cthulhuology/newscript/internal/image"
	"github.com/cthulhuology/newscript/internal/vm"
)

var (
	interruptRate uint64
	refreshRate   uint64
	headless      bool
	netListen     string
	netPeer       string
)

// rootCmd is ns's entire command surface: one positional image path and a
// handful of flags, not a subcommand tree, per spec.md §6's
// `ns IMAGE_FILE [--interrupt-rate N] [--refresh-rate N] [--headless]`.
var rootCmd = &cobra.Command{
	Use:   "ns IMAGE_FILE",
	Short: "run a NewScript image",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: ns IMAGE_FILE [--interrupt-rate N] [--refresh-rate N] [--headless]")
			os.Exit(0)
		}
		return nil
	},
	Run: runImage,
}

func init() {
	rootCmd.Flags().Uint64Var(&interruptRate, "interrupt-rate", vm.DefaultInterruptInterval.Events, "fetch cycles between host-event pumps")
	rootCmd.Flags().Uint64Var(&refreshRate, "refresh-rate", vm.DefaultInterruptInterval.Refresh, "fetch cycles between display refreshes")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without a display or audio back-end")
	rootCmd.Flags().StringVar(&netListen, "net-listen", "127.0.0.1:7071", "local UDP address for the network port")
	rootCmd.Flags().StringVar(&netPeer, "net-peer", "127.0.0.1:7072", "peer UDP address for the network port")
}

// Execute runs the ns command. Called from main via pixelgl.Run so the
// display back-end, if any, owns the main thread.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runImage(cmd *cobra.Command, args []string) {
	path := args[0]

	img, err := image.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	defer img.Close()

	ports, disp, cleanup, err := buildPorts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	defer cleanup()

	machine, err := vm.New(img.Cells, vm.WithPorts(ports), vm.WithInterruptInterval(vm.InterruptInterval{
		Events:  interruptRate,
		Refresh: refreshRate,
	}))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(vm.ExitCode(err))
	}
	if disp != nil {
		disp.SetOnClose(machine.Halt)
	}

	if err := machine.Run(); err != nil && err != vm.ErrHalt {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildPorts wires the seven port addresses to the reference device
// back-ends, or to headless stand-ins when --headless is set. cleanup
// must be called once the VM has stopped running. The returned *Display
// is nil in headless mode; the caller uses it to arm window-close
// handling once the VM exists.
func buildPorts() ([7]vm.Port, *display.Display, func(), error) {
	var ports [7]vm.Port
	cleanup := func() {}

	net, err := network.Dial(netListen, netPeer)
	if err != nil {
		return ports, nil, cleanup, err
	}
	ports[0] = net // vm.PortNet

	if headless {
		ports[1] = nil // vm.PortVideo: zero value -> nopPort inside vm.New
		ports[2] = nil // vm.PortAudio
		ports[3] = nil // vm.PortMouse
		ports[4] = nil // vm.PortKey
		cleanup = func() { net.Close() }
		return ports, nil, cleanup, nil
	}

	disp, err := display.New("newscript")
	if err != nil {
		net.Close()
		return ports, nil, cleanup, fmt.Errorf("%w: %v", errNoDisplay, err)
	}
	ports[1] = disp

	audioPort := audio.New()
	if err := speaker.Init(beep.SampleRate(audio.SampleRate), beep.SampleRate(audio.SampleRate).N(time.Second/10)); err != nil {
		net.Close()
		return ports, nil, cleanup, fmt.Errorf("%w: %v", errNoAudio, err)
	}
	speaker.Play(audioPort)
	ports[2] = audioPort

	ports[3] = input.NewMouse(disp.Win)
	ports[4] = input.NewKeyboard(disp.Win)

	cleanup = func() {
		speaker.Clear()
		net.Close()
	}
	return ports, disp, cleanup, nil
}
