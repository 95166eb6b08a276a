package vp8bool

// Intra macroblock luma modes (RFC 6386, section 8.1).
const (
	DCPred = iota
	VPred
	HPred
	TMPred
	BPred
)

// Subblock intra modes.
const (
	BDCPred = iota
	BTMPred
	BVEPred
	BHEPred
	BLDPred
	BRDPred
	BVRPred
	BVLPred
	BHDPred
	BHUPred
)

// DCT token values.
const (
	DCT0 = iota
	DCT1
	DCT2
	DCT3
	DCT4
	DCTCat1
	DCTCat2
	DCTCat3
	DCTCat4
	DCTCat5
	DCTCat6
	DCTEOB
)

// Standard VP8 trees. They must not be modified.
var (
	// YModeTree codes the luma mode of inter-frame macroblocks.
	YModeTree = []int8{
		-DCPred, 2,
		4, 6,
		-VPred, -HPred,
		-TMPred, -BPred,
	}

	// KeyFrameYModeTree codes the luma mode of key-frame macroblocks.
	KeyFrameYModeTree = []int8{
		-BPred, 2,
		4, 6,
		-DCPred, -VPred,
		-HPred, -TMPred,
	}

	// UVModeTree codes the chroma mode.
	UVModeTree = []int8{
		-DCPred, 2,
		-VPred, 4,
		-HPred, -TMPred,
	}

	// BModeTree codes subblock intra modes.
	BModeTree = []int8{
		-BDCPred, 2,
		-BTMPred, 4,
		-BVEPred, 6,
		8, 12,
		-BHEPred, 10,
		-BRDPred, -BVRPred,
		-BLDPred, 14,
		-BVLPred, 16,
		-BHDPred, -BHUPred,
	}

	// SegmentTree codes the macroblock segment id.
	SegmentTree = []int8{
		2, 4,
		-0, -1,
		-2, -3,
	}

	// CoeffTree codes DCT tokens. Reading from position 2 skips the
	// end-of-block branch, as done after a zero token.
	CoeffTree = []int8{
		-DCTEOB, 2,
		-DCT0, 4,
		-DCT1, 6,
		8, 12,
		-DCT2, 10,
		-DCT3, -DCT4,
		14, 16,
		-DCTCat1, -DCTCat2,
		18, 20,
		-DCTCat3, -DCTCat4,
		-DCTCat5, -DCTCat6,
	}

	// SmallMVTree codes short motion vector magnitudes (0..7).
	SmallMVTree = []int8{
		2, 8,
		4, 6,
		-0, -1,
		-2, -3,
		10, 12,
		-4, -5,
		-6, -7,
	}
)

// Default probabilities for the trees above.
var (
	KeyFrameYModeProbs  = []uint8{145, 156, 163, 128}
	YModeProbs          = []uint8{112, 86, 140, 37}
	KeyFrameUVModeProbs = []uint8{142, 114, 183}
	UVModeProbs         = []uint8{162, 101, 204}
	BModeProbs          = []uint8{120, 90, 79, 133, 87, 85, 80, 111, 151}
	SegmentProbs        = []uint8{255, 255, 255}
)
