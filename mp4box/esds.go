package mp4box

import (
	"bytes"

	"github.com/icza/bitio"

	"mp4rec/mp4box/bits"
)

// MPEG-4 descriptor tags, ISO/IEC 14496-1.
const (
	descrTagES                = 0x03
	descrTagDecoderConfig     = 0x04
	descrTagDecoderSpecific   = 0x05
	descrTagSLConfig          = 0x06
	objectTypeIndicationAudio = 0x40
	streamTypeAudio           = 5
)

// Esds is the elementary stream descriptor box wrapping an AAC
// AudioSpecificConfig. The nested descriptor lengths are canonical
// (smallest legal width), computed from the actual encoded sizes rather
// than a fixed 4-byte form.
type Esds struct {
	AudioSpecificConfig [2]byte
}

func (b *Esds) Type() Type { return TypeEsds }

func descriptorLengthSize(n int) int {
	switch {
	case n < 1<<7:
		return 1
	case n < 1<<14:
		return 2
	case n < 1<<21:
		return 3
	default:
		return 4
	}
}

func (b *Esds) decSpecificInfoSize() int {
	return 2 // AudioSpecificConfig
}

func (b *Esds) decSpecificInfoDescrSize() int {
	content := b.decSpecificInfoSize()
	return 1 + descriptorLengthSize(content) + content
}

func (b *Esds) decoderConfigContentSize() int {
	return 1 + 1 + 3 + 4 + 4 + b.decSpecificInfoDescrSize()
}

func (b *Esds) decoderConfigDescrSize() int {
	content := b.decoderConfigContentSize()
	return 1 + descriptorLengthSize(content) + content
}

func (b *Esds) slConfigDescrSize() int {
	const content = 1
	return 1 + descriptorLengthSize(content) + content
}

func (b *Esds) esContentSize() int {
	return 2 + 1 + b.decoderConfigDescrSize() + b.slConfigDescrSize()
}

func (b *Esds) esDescrSize() int {
	content := b.esContentSize()
	return 1 + descriptorLengthSize(content) + content
}

// Size returns the FullBox prefix plus the single top-level ES_Descriptor.
func (b *Esds) Size() int {
	return 4 + b.esDescrSize()
}

func (b *Esds) Marshal(w *bits.Writer) error {
	w.TryWriteByte(0) // version
	w.TryWriteByte(0) // flags
	w.TryWriteByte(0)
	w.TryWriteByte(0)

	w.TryWriteByte(descrTagES)
	w.TryWriteDescriptorLength(uint32(b.esContentSize()))
	w.TryWriteUint16(0) // ES_ID
	w.TryWriteByte(0)   // streamDependenceFlag|URL_Flag|OCRstreamFlag|streamPriority

	w.TryWriteByte(descrTagDecoderConfig)
	w.TryWriteDescriptorLength(uint32(b.decoderConfigContentSize()))
	w.TryWriteByte(objectTypeIndicationAudio)
	w.TryWriteByte(streamTypeAudio<<2 | 1) // streamType<<2 | upStream<<1 | reserved(1)
	w.TryWriteByte(0)                      // bufferSizeDB[0]
	w.TryWriteByte(0)                      // bufferSizeDB[1]
	w.TryWriteByte(0)                      // bufferSizeDB[2]
	w.TryWriteUint32(128000)               // maxBitrate
	w.TryWriteUint32(128000)               // avgBitrate

	w.TryWriteByte(descrTagDecoderSpecific)
	w.TryWriteDescriptorLength(uint32(b.decSpecificInfoSize()))
	w.TryWrite(b.AudioSpecificConfig[:])

	w.TryWriteByte(descrTagSLConfig)
	w.TryWriteDescriptorLength(1)
	w.TryWriteByte(2) // predefined: MP4 file use

	return w.TryError
}

// aacSampleRates is the MPEG-4 sampling frequency table, index 0-12.
var aacSampleRates = [13]int{96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350}

// AACSampleRateIndex looks up rate in the MPEG-4 sampling frequency
// table, defaulting to index 3 (48000 Hz) for unknown rates.
func AACSampleRateIndex(rate int) byte {
	for i, r := range aacSampleRates {
		if r == rate {
			return byte(i)
		}
	}
	return 3
}

const aacAudioObjectTypeLC = 2

// PackAudioSpecificConfig packs the 13-bit {object type, sample rate
// index, channel config} triple used by this recorder's esds into 2
// bytes, zero-padded to a byte boundary.
func PackAudioSpecificConfig(sampleRateIndex, channelConfig byte) [2]byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	w.WriteBits(uint64(aacAudioObjectTypeLC), 5)
	w.WriteBits(uint64(sampleRateIndex), 4)
	w.WriteBits(uint64(channelConfig), 4)
	w.WriteBits(0, 3) // pad to a byte boundary
	w.Close()

	var out [2]byte
	copy(out[:], buf.Bytes())
	return out
}

// UnpackAudioSpecificConfig is the inverse of PackAudioSpecificConfig,
// recovering the object type, sample rate index, and channel config
// packed into asc. It exists for tests and tools that need to inspect
// an esds already written to disk.
func UnpackAudioSpecificConfig(asc [2]byte) (audioObjectType, sampleRateIndex, channelConfig byte) {
	r := bitio.NewReader(bytes.NewReader(asc[:]))
	aot, _ := r.ReadBits(5)
	sri, _ := r.ReadBits(4)
	cc, _ := r.ReadBits(4)
	return byte(aot), byte(sri), byte(cc)
}
