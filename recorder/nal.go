package recorder

const maxParameterSetSize = 256

// nalType is the low 5 bits of a NAL unit's header byte.
func nalType(nal []byte) byte {
	return nal[0] & 0x1F
}

const (
	nalTypeSPS = 7
	nalTypePPS = 8
)

func handleNAL(nal []byte, sps, pps *[]byte) {
	if len(nal) == 0 || len(nal) > maxParameterSetSize {
		return
	}
	switch nalType(nal) {
	case nalTypeSPS:
		if *sps == nil {
			*sps = append([]byte(nil), nal...)
		}
	case nalTypePPS:
		if *pps == nil {
			*pps = append([]byte(nil), nal...)
		}
	}
}

// extractParameterSets scans one sample's bytes for an SPS and a PPS,
// accepting either Annex-B start-code framing (3- or 4-byte
// 0x000001/0x00000001) or AVCC 4-byte big-endian length prefixes. It
// returns as soon as both are found, or after scanning the whole
// sample otherwise.
func extractParameterSets(sample []byte) (sps, pps []byte, found bool) {
	if len(sample) < 4 {
		return nil, nil, false
	}

	if hasAnnexBStartCode(sample) {
		extractAnnexB(sample, &sps, &pps)
		return sps, pps, sps != nil && pps != nil
	}

	extractAVCC(sample, &sps, &pps)
	return sps, pps, sps != nil && pps != nil
}

func hasAnnexBStartCode(sample []byte) bool {
	if len(sample) >= 4 && sample[0] == 0 && sample[1] == 0 && sample[2] == 0 && sample[3] == 1 {
		return true
	}
	return len(sample) >= 3 && sample[0] == 0 && sample[1] == 0 && sample[2] == 1
}

func startCodeLen(sample []byte, pos int) int {
	if pos+4 <= len(sample) && sample[pos] == 0 && sample[pos+1] == 0 && sample[pos+2] == 0 && sample[pos+3] == 1 {
		return 4
	}
	if pos+3 <= len(sample) && sample[pos] == 0 && sample[pos+1] == 0 && sample[pos+2] == 1 {
		return 3
	}
	return 0
}

func extractAnnexB(sample []byte, sps, pps *[]byte) {
	pos := 0
	start := 0
	for pos+3 < len(sample) {
		if n := startCodeLen(sample, pos); n > 0 {
			if start < pos {
				handleNAL(sample[start:pos], sps, pps)
				if *sps != nil && *pps != nil {
					return
				}
			}
			pos += n
			start = pos
			continue
		}
		pos++
	}
	if start < len(sample) {
		handleNAL(sample[start:], sps, pps)
	}
}

func extractAVCC(sample []byte, sps, pps *[]byte) {
	pos := 0
	for pos+4 <= len(sample) {
		nalSize := int(uint32(sample[pos])<<24 | uint32(sample[pos+1])<<16 | uint32(sample[pos+2])<<8 | uint32(sample[pos+3]))
		pos += 4
		if nalSize == 0 || pos+nalSize > len(sample) {
			break
		}
		handleNAL(sample[pos:pos+nalSize], sps, pps)
		if *sps != nil && *pps != nil {
			return
		}
		pos += nalSize
	}
}
