package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/cardsynth/cardsynth"
	"github.com/cardsynth/cardsynth/engine"
	"github.com/cardsynth/cardsynth/midi"
	"github.com/cardsynth/cardsynth/oto"
	"github.com/cardsynth/cardsynth/presetlib"
	"github.com/cardsynth/cardsynth/version"
)

func main() {
	list := flag.Bool("l", false, "List the available presets and MIDI input devices, then exit.")
	presetFlag := flag.String("p", "", "Preset id to load, overriding the one named in the pattern file. Required for -m.")
	jam := flag.Bool("m", false, "Play live from a MIDI input device instead of pattern files.")
	device := flag.String("i", "", "MIDI input device name prefix for -m. By default, the first available device is used.")
	seconds := flag.Float64("t", 0, "Stop playback after this many seconds. Zero plays patterns to the end; with -m, zero plays until interrupted.")
	rawOut := flag.Bool("r", false, "Output the rendered audio as a .raw file (stereo float32) instead of playing it.")
	directory := flag.String("o", "", "Directory where to output .raw files. By default, the current working directory.")
	seed := flag.Int64("seed", 0, "Seed for random round-robin sample selection.")
	verbose := flag.Bool("e", false, "Print voice events while playing.")
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help || (flag.NArg() == 0 && !*jam && !*list) {
		flag.Usage()
		os.Exit(0)
	}
	library := presetlib.Load()
	if *list {
		for entry := range library.Entries {
			origin := "builtin"
			if entry.User {
				origin = "user"
			}
			fmt.Printf("%-30s %-8s %s\n", entry.ID, entry.Preset.Card, origin)
		}
		midiContext := midi.NewContext()
		for name := range midiContext.InputDevices {
			fmt.Printf("midi in: %s\n", name)
		}
		midiContext.Close()
		os.Exit(0)
	}
	newEngine := func() *engine.Engine {
		e := engine.New(library)
		if *seed != 0 {
			e.SeedRandom(*seed)
		}
		return e
	}
	var audioContext cardsynth.AudioContext
	if !*rawOut {
		var err error
		audioContext, err = oto.NewContext()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	if *jam {
		if err := playLive(newEngine(), audioContext, *presetFlag, *device, *seconds, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	retval := 0
	for _, filename := range flag.Args() {
		if err := playFile(newEngine(), audioContext, filename, *presetFlag, *directory, *rawOut, *seconds, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", filename, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func playFile(e *engine.Engine, audioContext cardsynth.AudioContext, filename, presetOverride, directory string, rawOut bool, limit float64, verbose bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read file %v: %v", filename, err)
	}
	pattern, err := ParsePattern(data)
	if err != nil {
		return err
	}
	presetID := pattern.Preset
	if presetOverride != "" {
		presetID = presetOverride
	}
	if err := loadPreset(e, presetID, verbose); err != nil {
		return err
	}
	duration := pattern.Duration() + 2 // leave room for release tails
	if limit > 0 && limit < duration {
		duration = limit
	}
	r := newRenderer(e)
	events := pattern.Events()
	var sink cardsynth.AudioSink
	var raw []byte
	if rawOut {
		raw = make([]byte, 0, int(duration*sampleRate)*8)
	} else {
		sink = audioContext.Output()
		defer sink.Close()
	}
	for r.time < duration {
		for len(events) > 0 && events[0].Time <= r.time {
			report(e.Process(events[0].Input), verbose)
			events = events[1:]
		}
		block, outputs := r.renderBlock()
		report(outputs, verbose)
		if rawOut {
			raw = appendFloat32LE(raw, block)
		} else if err := sink.WriteAudio(block); err != nil {
			return err
		}
	}
	fmt.Printf("%s: %.1f s, peak %.1f dBFS\n", presetID, r.time, r.peakDB())
	if rawOut {
		return writeRaw(filename, directory, raw)
	}
	return nil
}

func playLive(e *engine.Engine, audioContext cardsynth.AudioContext, presetID, device string, limit float64, verbose bool) error {
	if presetID == "" {
		return fmt.Errorf("live mode needs a preset, pass one with -p (use -l to list them)")
	}
	if err := loadPreset(e, presetID, verbose); err != nil {
		return err
	}
	midiContext := midi.NewContext()
	defer midiContext.Close()
	if err := midiContext.Open(device, device == ""); err != nil {
		return err
	}
	sink := audioContext.Output()
	defer sink.Close()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	fmt.Printf("%s: playing, ctrl-c to stop\n", presetID)
	r := newRenderer(e)
	for limit <= 0 || r.time < limit {
		select {
		case <-interrupt:
			fmt.Printf("peak %.1f dBFS\n", r.peakDB())
			return nil
		default:
		}
	drain:
		for {
			select {
			case input := <-midiContext.Inputs():
				report(e.Process(input), verbose)
			default:
				break drain
			}
		}
		block, outputs := r.renderBlock()
		report(outputs, verbose)
		if err := sink.WriteAudio(block); err != nil {
			return err
		}
	}
	fmt.Printf("peak %.1f dBFS\n", r.peakDB())
	return nil
}

func loadPreset(e *engine.Engine, id string, verbose bool) error {
	for _, out := range e.Process(engine.LoadPreset{ID: id}) {
		if errOut, ok := out.(engine.Error); ok {
			return fmt.Errorf("%s", errOut.Message)
		}
		reportOne(out, verbose)
	}
	return nil
}

func report(outputs []engine.Output, verbose bool) {
	for _, out := range outputs {
		reportOne(out, verbose)
	}
}

func reportOne(out engine.Output, verbose bool) {
	if errOut, ok := out.(engine.Error); ok {
		fmt.Fprintf(os.Stderr, "engine error: %s\n", errOut.Message)
		return
	}
	if !verbose {
		return
	}
	switch o := out.(type) {
	case engine.VoiceStart:
		fmt.Printf("voice %d: note %d on, velocity %d\n", o.VoiceID, o.Note, o.Velocity)
	case engine.VoiceEnd:
		fmt.Printf("voice %d: note %d off\n", o.VoiceID, o.Note)
	case engine.VoiceStolen:
		fmt.Printf("voice %d: note %d stolen by note %d\n", o.VoiceID, o.Note, o.ByNote)
	case engine.VoiceChoked:
		fmt.Printf("voice %d: note %d choked by pad %d\n", o.VoiceID, o.Note, o.ByPad)
	case engine.ArticulationChanged:
		fmt.Printf("articulation: %s\n", o.Name)
	case engine.PresetLoaded:
		fmt.Printf("preset: %s\n", o.ID)
	}
}

func appendFloat32LE(dst []byte, src []float32) []byte {
	for _, v := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

func writeRaw(filename, directory string, contents []byte) error {
	_, name := filepath.Split(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".raw"
	dir := directory
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	f := filepath.Join(dir, name)
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Command line utility for playing cardsynth .yml pattern files.\nUsage: %s [flags] [pattern.yml ...]\n", os.Args[0])
	flag.PrintDefaults()
}
