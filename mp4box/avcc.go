package mp4box

import "mp4rec/mp4box/bits"

// AvcC is the AVCDecoderConfigurationRecord box. This recorder always
// carries exactly one SPS and one PPS — multiple parameter sets are a
// non-goal — so there is no list/count indirection here.
type AvcC struct {
	Profile               byte
	ProfileCompatibility  byte
	Level                 byte
	SPS                   []byte
	PPS                   []byte
}

const avcCLengthSizeMinusOne = 0xFF // reserved=0x3F, length_size_minus_one=3 (4-byte NAL lengths)

func (b *AvcC) Type() Type { return TypeAvcC }

func (b *AvcC) Size() int {
	return 1 + 1 + 1 + 1 + // version, profile, compat, level
		1 + // reserved|lengthSizeMinusOne
		1 + 2 + len(b.SPS) + // numSPS, spsLen, sps
		1 + 2 + len(b.PPS) // numPPS, ppsLen, pps
}

func (b *AvcC) Marshal(w *bits.Writer) error {
	w.TryWriteByte(1) // configurationVersion
	w.TryWriteByte(b.Profile)
	w.TryWriteByte(b.ProfileCompatibility)
	w.TryWriteByte(b.Level)
	w.TryWriteByte(avcCLengthSizeMinusOne)
	w.TryWriteByte(0xE1) // reserved(3 bits)=111, numOfSequenceParameterSets=1
	w.TryWriteUint16(uint16(len(b.SPS)))
	w.TryWrite(b.SPS)
	w.TryWriteByte(1) // numOfPictureParameterSets
	w.TryWriteUint16(uint16(len(b.PPS)))
	w.TryWrite(b.PPS)
	return w.TryError
}

// BaselineProfile and Level31 are the avcC defaults used when the
// caller's SPS is absent or too short to sniff a profile/level from.
const (
	BaselineProfile = 0x42
	Level31         = 0x1F
)

// StripAnnexB removes a leading 3- or 4-byte Annex-B start code from
// nal, returning nal unchanged if no start code is present.
func StripAnnexB(nal []byte) []byte {
	if len(nal) >= 4 && nal[0] == 0 && nal[1] == 0 && nal[2] == 0 && nal[3] == 1 {
		return nal[4:]
	}
	if len(nal) >= 3 && nal[0] == 0 && nal[1] == 0 && nal[2] == 1 {
		return nal[3:]
	}
	return nal
}

// SniffProfileLevel reads the profile/profile-compatibility/level triple
// from bytes 1-3 of an SPS payload, falling back to Baseline 3.1 when
// sps is too short.
func SniffProfileLevel(sps []byte) (profile, compat, level byte) {
	if len(sps) < 4 {
		return BaselineProfile, 0, Level31
	}
	return sps[1], sps[2], sps[3]
}
