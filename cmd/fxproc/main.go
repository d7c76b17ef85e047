// Command fxproc runs a chain of audio effects over a WAV file.
//
// Usage:
//
//	fxproc -in dry.wav -out wet.wav -chain gain,delay \
//	    -set gain.gain=-3 -set delay.time=375 -set delay.feedback=0.4
//
// Effects are named in processing order; parameters are addressed as
// effect.param and apply to the first effect of that name in the chain.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/effects"
	"github.com/cwbudde/algo-fx/dsp/param"
)

type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		inPath    = flag.String("in", "", "input WAV file")
		outPath   = flag.String("out", "", "output WAV file")
		chainSpec = flag.String("chain", "gain", "comma-separated effect chain")
		blockSize = flag.Int("block", 512, "processing block size in samples")
		tempo     = flag.Float64("tempo", 120, "transport tempo in BPM for synced effects")
		verbose   = flag.Bool("v", false, "debug logging")
		listFx    = flag.Bool("list", false, "list available effects and exit")
		sets      setFlags
	)

	flag.Var(&sets, "set", "set a parameter as effect.param=value (repeatable)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	registry := effects.DefaultRegistry()

	if *listFx {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}

		return
	}

	if *inPath == "" || *outPath == "" {
		log.Fatal("both -in and -out are required")
	}

	chain, err := buildChain(registry, *chainSpec)
	if err != nil {
		log.Fatalf("building chain: %v", err)
	}

	for _, assignment := range sets {
		if err := applySet(chain, assignment); err != nil {
			log.Fatalf("applying -set %s: %v", assignment, err)
		}
	}

	left, right, sampleRate, err := readWAV(*inPath)
	if err != nil {
		log.Fatalf("reading %s: %v", *inPath, err)
	}

	channels := 1
	if right != nil {
		channels = 2
	}

	log.Infof("loaded %s: %d frames, %d channel(s), %d Hz", *inPath, len(left), channels, sampleRate)

	ctx := effect.Context{SampleRate: float64(sampleRate), TempoBPM: *tempo}
	if err := chain.Prepare(ctx, *blockSize); err != nil {
		log.Fatalf("preparing chain: %v", err)
	}

	latency := chain.Latency()
	log.Debugf("chain latency: %d samples", latency)

	left, right = process(chain, left, right, latency, *blockSize)

	log.Debugf("output peak: %.2f dBFS", core.LinearToDB(peakAbs(left, right)))

	if err := writeWAV(*outPath, left, right, sampleRate); err != nil {
		log.Fatalf("writing %s: %v", *outPath, err)
	}

	chain.Release()
	log.Infof("wrote %s", *outPath)
}

func buildChain(registry *effect.Registry, spec string) (*effect.Chain, error) {
	var list []effect.Effect

	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		fx, err := registry.New(name)
		if err != nil {
			return nil, err
		}

		list = append(list, fx)
		log.Debugf("chain += %s", name)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("empty chain %q", spec)
	}

	return effect.NewChain(list...), nil
}

// paramHost is implemented by every effect in the effects package.
type paramHost interface {
	Params() *param.Set
}

func applySet(chain *effect.Chain, assignment string) error {
	key, valueStr, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("want effect.param=value")
	}

	fxName, paramName, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("want effect.param=value")
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", valueStr, err)
	}

	for _, fx := range chain.Effects() {
		if effectName(fx) != fxName {
			continue
		}

		host, ok := fx.(paramHost)
		if !ok {
			continue
		}

		p := host.Params().Lookup(paramName)
		if p == nil {
			continue
		}

		p.SetTarget(value)
		log.Debugf("set %s.%s = %g", fxName, paramName, value)

		return nil
	}

	return fmt.Errorf("no effect %q with parameter %q in chain", fxName, paramName)
}

func effectName(fx effect.Effect) string {
	switch fx.(type) {
	case *effects.Gain:
		return "gain"
	case *effects.FeedbackDelay:
		return "delay"
	case *effects.Chorus:
		return "chorus"
	case *effects.Phaser:
		return "phaser"
	case *effects.Tremolo:
		return "tremolo"
	case *effects.Compressor:
		return "compressor"
	case *effects.Equalizer:
		return "eq"
	default:
		return ""
	}
}

// readWAV returns the first channel, the second channel (nil for mono
// files) and the sample rate, with samples normalized to [-1, 1].
func readWAV(path string) (left, right []float64, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, 0, err
	}

	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, nil, 0, fmt.Errorf("empty or malformed WAV data")
	}

	channels := buf.Format.NumChannels
	if channels > 2 {
		return nil, nil, 0, fmt.Errorf("%d channels not supported, want mono or stereo", channels)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}

	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	frames := len(buf.Data) / channels

	left = make([]float64, frames)

	if channels == 2 {
		right = make([]float64, frames)
	}

	for i := 0; i < frames; i++ {
		left[i] = float64(buf.Data[i*channels]) * scale
		if right != nil {
			right[i] = float64(buf.Data[i*channels+1]) * scale
		}
	}

	return left, right, buf.Format.SampleRate, nil
}

// process runs the chain over the audio in fixed blocks, appending
// latency padding and trimming it from the front so the output lines
// up with the input.
func process(chain *effect.Chain, left, right []float64, latency, blockSize int) ([]float64, []float64) {
	frames := len(left)
	padded := frames + latency

	l := make([]float64, padded)
	copy(l, left)

	var r []float64
	if right != nil {
		r = make([]float64, padded)
		copy(r, right)
	}

	for pos := 0; pos < padded; pos += blockSize {
		end := pos + blockSize
		if end > padded {
			end = padded
		}

		if r != nil {
			chain.ProcessStereo(l[pos:end], r[pos:end])
		} else {
			chain.Process(l[pos:end])
		}
	}

	if r == nil {
		return l[latency:], nil
	}

	return l[latency:], r[latency:]
}

// writeWAV stores the processed audio as 16-bit PCM, hard-clipped to
// full scale.
func writeWAV(path string, left, right []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	channels := 1
	if right != nil {
		channels = 2
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	defer enc.Close()

	data := make([]float32, len(left)*channels)

	for i := range left {
		data[i*channels] = clip16(left[i])
		if right != nil {
			data[i*channels+1] = clip16(right[i])
		}
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	return enc.Write(buf)
}

func clip16(v float64) float32 {
	return float32(math.Max(-1, math.Min(1, v)))
}

func peakAbs(channels ...[]float64) float64 {
	peak := 0.0
	for _, ch := range channels {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}

	return peak
}
