// Package vp8bool implements the boolean entropy decoder of the VP8
// bitstream, as used by lossy WebP.
//
// A boolean decoder turns one entropy-coded partition into a sequence of
// probability-weighted decisions. Everything else a VP8 decoder reads is
// built from that single primitive:
//   - Booleans with an explicit probability (ReadBool)
//   - Fixed-width unsigned literals (ReadLiteral, ReadFlag)
//   - Signed magnitudes (ReadMagnitudeAndSign)
//   - Tree-coded symbols such as prediction modes and DCT tokens
//     (ReadWithTree, Tree, ReadTree)
//
// Several interchangeable backends implement the Decoder interface, so
// they can be benchmarked against each other on identical input:
//
//	d, err := vp8bool.NewDecoder(vp8bool.Cached, partition)
//	if err != nil {
//		return err
//	}
//	mode := d.ReadWithTree(vp8bool.KeyFrameYModeTree, vp8bool.KeyFrameYModeProbs, 0)
//
// Container parsing and partition slicing are left to the caller.
package vp8bool
