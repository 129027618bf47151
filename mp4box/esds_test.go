package mp4box

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"mp4rec/mp4box/bits"
)

func TestPackUnpackAudioSpecificConfigRoundTrip(t *testing.T) {
	sri := AACSampleRateIndex(48000)
	asc := PackAudioSpecificConfig(sri, 2)

	aot, gotSRI, cc := UnpackAudioSpecificConfig(asc)
	require.EqualValues(t, aacAudioObjectTypeLC, aot)
	require.Equal(t, sri, gotSRI)
	require.EqualValues(t, 2, cc)
}

func TestAACSampleRateIndexDefaultsTo48000(t *testing.T) {
	require.EqualValues(t, 3, AACSampleRateIndex(1))
	require.EqualValues(t, 3, AACSampleRateIndex(48000))
	require.EqualValues(t, 4, AACSampleRateIndex(44100))
}

func TestDescriptorLengthEncodingIsCanonicalSingleByte(t *testing.T) {
	esds := &Esds{AudioSpecificConfig: [2]byte{0x12, 0x08}}

	var buf bytes.Buffer
	w := bits.NewWriter(bits.NewByteWriter(&buf))
	n, err := WriteSingleBox(w, esds)
	require.NoError(t, err)
	require.Equal(t, n, buf.Len())

	// Every descriptor in this box's content is small enough to fit a
	// single length byte (top bit clear, no continuation).
	out := buf.Bytes()
	esDescrTagPos := 8 + 4 // header + FullBox prefix
	require.Equal(t, byte(descrTagES), out[esDescrTagPos])
	lengthByte := out[esDescrTagPos+1]
	require.Zero(t, lengthByte&0x80)
}

func TestEsdsSizeMatchesMarshaledLength(t *testing.T) {
	esds := &Esds{AudioSpecificConfig: PackAudioSpecificConfig(AACSampleRateIndex(48000), 2)}
	var buf bytes.Buffer
	w := bits.NewWriter(bits.NewByteWriter(&buf))
	n, err := WriteSingleBox(w, esds)
	require.NoError(t, err)
	require.Equal(t, 8+esds.Size(), n)
	require.Equal(t, n, buf.Len())
}
