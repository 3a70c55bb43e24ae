/*
NAME
  adpcmbook.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package adpcmbook estimates a VADPCM predictor codebook from a plain PCM
// waveform by linear predictive coding: a Levinson-Durbin analysis over the
// whole signal seeds an initial single-predictor model, which is then split
// and refined by LBG vector quantization into the fixed two-predictor shape
// the game's codebook always has. This is the estimation path taken when a
// sample's AIFC container carries no embedded VADPCMCODES chunk to extract
// one from directly.
package adpcmbook

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sm64sound/extractor/codec/adpcm"
)

// EstimationError reports that a codebook could not be estimated from the
// given waveform at all (as opposed to an individual frame being skipped,
// which happens silently — see acvect/model instability below).
type EstimationError struct{ msg string }

func (e *EstimationError) Error() string { return "adpcmbook: " + e.msg }

func estimationErrorf(format string, args ...interface{}) error {
	return &EstimationError{msg: fmt.Sprintf(format, args...)}
}

const (
	order        = 2
	bits         = 1
	refineIters  = 2
	frameSize    = 16
	thresh       = 10.0
	clampEpsilon = 1.0 - 1e-10
)

// acvect computes the negative autocorrelation vector of a 16-sample frame
// against up to order samples of preceding history. window is a 32-sample
// buffer: window[:16] is the preceding frame (history), window[16:] is the
// frame under analysis — the same shape the original tool's
// acvect/&temp[16..] trick uses to let negative lag indices reach into
// history.
func acvect(window []int16, out []float64) {
	for i := 0; i <= order; i++ {
		var sum float64
		for j := 0; j < frameSize; j++ {
			sum -= float64(window[frameSize+j-i]) * float64(window[frameSize+j])
		}
		out[i] = sum
	}
}

// acmat computes the order x order autocorrelation matrix used to solve for
// the initial reflection coefficients of a single frame.
func acmat(window []int16, out [][]float64) {
	for i := 1; i <= order; i++ {
		for j := 1; j <= order; j++ {
			var sum float64
			for k := 0; k < frameSize; k++ {
				sum += float64(window[frameSize+k-i]) * float64(window[frameSize+k-j])
			}
			out[i][j] = sum
		}
	}
}

// solve solves the order-by-order linear system a*x = b in place, returning
// false if a is singular (mirrors lud/lubksb's failure return, replaced here
// by gonum's LU factorization).
func solve(a [][]float64, b []float64) bool {
	data := make([]float64, order*order)
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			data[i*order+j] = a[i+1][j+1]
		}
	}
	dense := mat.NewDense(order, order, data)
	var lu mat.LU
	lu.Factorize(dense)
	if lu.Cond() > 1e10 {
		return false
	}
	bv := mat.NewVecDense(order, append([]float64(nil), b[1:order+1]...))
	var xv mat.VecDense
	if err := lu.SolveVecTo(&xv, false, bv); err != nil {
		return false
	}
	for i := 0; i < order; i++ {
		b[i+1] = xv.AtVec(i)
	}
	return true
}

// durbin runs the Levinson-Durbin recursion over autocorrelation r (1-indexed,
// length n+1), writing reflection coefficients to k and the running LPC
// coefficients to a (both 1-indexed, length n+1). Returns the count of
// reflection coefficients outside (-1,1), mirroring estimate.c's durbin.
func durbin(r []float64, n int, k, a []float64) int {
	a[0] = 1.0
	div := r[0]
	unstable := 0
	for i := 1; i <= n; i++ {
		var sum float64
		for j := 1; j <= i-1; j++ {
			sum += a[j] * r[i-j]
		}
		if div > 0 {
			a[i] = -(r[i] + sum) / div
		} else {
			a[i] = 0
		}
		k[i] = a[i]
		if abs(k[i]) > 1.0 {
			unstable++
		}
		for j := 1; j < i; j++ {
			a[j] += a[i-j] * a[i]
		}
		div *= 1.0 - a[i]*a[i]
	}
	return unstable
}

// afromk converts reflection coefficients k (1-indexed, length n+1) to LPC
// coefficients out (1-indexed, length n+1), mirroring codebook.c's afromk.
func afromk(k []float64, out []float64, n int) {
	out[0] = 1.0
	for i := 1; i <= n; i++ {
		out[i] = k[i]
		for j := 1; j < i; j++ {
			out[j] += out[i-j] * out[i]
		}
	}
}

// kfroma converts LPC coefficients in (1-indexed, length n+1, mutated in
// place exactly as the original does) to reflection coefficients out.
// Returns false if a reflection coefficient would require dividing by zero —
// the caller discards this frame's contribution to the training set.
func kfroma(in []float64, out []float64, n int) bool {
	next := make([]float64, n+1)
	out[n] = in[n]
	for i := n - 1; i >= 1; i-- {
		for j := 0; j <= i; j++ {
			t := out[i+1]
			div := 1.0 - t*t
			if div == 0.0 {
				return false
			}
			next[j] = (in[j] - in[i+1-j]*t) / div
		}
		copy(in[:i+1], next[:i+1])
		out[i] = next[i]
	}
	return true
}

// rfroma converts LPC coefficients in (1-indexed, length n+1) into
// autocorrelation-domain coefficients out, mirroring estimate.c's rfroma.
func rfroma(in []float64, n int, out []float64) {
	tri := make([][]float64, n+1)
	tri[n] = make([]float64, n+1)
	tri[n][0] = 1.0
	for i := 1; i <= n; i++ {
		tri[n][i] = -in[i]
	}
	for i := n; i >= 1; i-- {
		tri[i-1] = make([]float64, i)
		div := 1.0 - tri[i][i]*tri[i][i]
		for j := 1; j <= i-1; j++ {
			tri[i-1][j] = (tri[i][i-j]*tri[i][i] + tri[i][j]) / div
		}
	}
	out[0] = 1.0
	for i := 1; i <= n; i++ {
		out[i] = 0.0
		for j := 1; j <= i; j++ {
			out[i] += tri[i][j] * out[i-j]
		}
	}
}

// modelDist computes a predictor model's distortion against one frame's
// autocorrelation-domain training vector, mirroring codebook.c's model_dist.
func modelDist(model, frame []float64, n int) float64 {
	r := make([]float64, n+1)
	rfroma(frame, n, r)

	acorr := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		var sum float64
		for j := 0; j <= n-i; j++ {
			sum += model[j] * model[i+j]
		}
		acorr[i] = sum
	}

	dist := acorr[0] * r[0]
	for i := 1; i <= n; i++ {
		dist += 2 * r[i] * acorr[i]
	}
	return dist
}

// split doubles a codebook of npredictors rows into 2*npredictors rows by
// perturbing each existing row by delta*scale, mirroring codebook.c's split.
func split(table [][]float64, delta []float64, npredictors int, scale float64) {
	for i := 0; i < npredictors; i++ {
		for j := 0; j <= order; j++ {
			table[i+npredictors][j] = table[i][j] + delta[j]*scale
		}
	}
}

// refine runs LBG iterations over table's npredictors rows against the
// training set data, mirroring codebook.c's refine.
func refine(table [][]float64, npredictors int, data [][]float64) {
	rsums := make([][]float64, npredictors)
	for i := range rsums {
		rsums[i] = make([]float64, order+1)
	}
	counts := make([]int, npredictors)
	tmp := make([]float64, order+1)

	for iter := 0; iter < refineIters; iter++ {
		for i := 0; i < npredictors; i++ {
			counts[i] = 0
			for j := range rsums[i] {
				rsums[i][j] = 0
			}
		}

		for _, frame := range data {
			best, bestIdx := 1e30, 0
			for j := 0; j < npredictors; j++ {
				d := modelDist(table[j], frame, order)
				if d < best {
					best, bestIdx = d, j
				}
			}
			counts[bestIdx]++
			rfroma(frame, order, tmp)
			for j := 0; j <= order; j++ {
				rsums[bestIdx][j] += tmp[j]
			}
		}

		for i := 0; i < npredictors; i++ {
			if counts[i] > 0 {
				for j := range rsums[i] {
					rsums[i][j] /= float64(counts[i])
				}
			}
		}

		for i := 0; i < npredictors; i++ {
			k := make([]float64, order+1)
			durbin(rsums[i], order, k, table[i])
			clampReflection(k)
			afromk(k, table[i], order)
		}
	}
}

func clampReflection(k []float64) {
	for j := 1; j < len(k); j++ {
		if k[j] >= 1.0 {
			k[j] = clampEpsilon
		}
		if k[j] <= -1.0 {
			k[j] = -clampEpsilon
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// deriveEntry expands one predictor's LPC coefficient row (1-indexed, length
// order+1) into the flat order*8 raw table the game's codec reads, mirroring
// print.c's write_tabledesign_codebook_entry. Returns the entry and a count
// of values that overflowed the signed 16-bit range they were clamped to.
func deriveEntry(row []float64) (raw []int16, overflows int) {
	table := make([][]float64, 8)
	for i := range table {
		table[i] = make([]float64, order)
	}

	for i := 0; i < order; i++ {
		for j := i; j < order; j++ {
			table[i][j] = -row[order-j+i]
		}
	}

	for i := 1; i < 8; i++ {
		for j := 1; j <= order; j++ {
			if i-j >= 0 {
				for k := 0; k < order; k++ {
					table[i][k] -= row[j] * table[i-j][k]
				}
			}
		}
	}

	raw = make([]int16, order*8)
	for col := 0; col < order; col++ {
		for rowIdx := 0; rowIdx < 8; rowIdx++ {
			fval := table[rowIdx][col] * 2048.0
			var ival int
			if fval < 0 {
				ival = int(fval - 0.5)
				if ival < -0x8000 {
					overflows++
					ival = -0x8000
				}
			} else {
				ival = int(fval + 0.5)
				if ival >= 0x8000 {
					overflows++
					ival = 0x7fff
				}
			}
			raw[col*8+rowIdx] = int16(ival)
		}
	}
	return raw, overflows
}

// Estimate derives a two-predictor VADPCM codebook from a decoded PCM
// waveform by Levinson-Durbin analysis followed by LBG split/refine,
// mirroring tabledesign.c's write_tabledesign_codebook. overflows counts
// coefficients that saturated the signed 16-bit range on output — the
// original tool logs this as a warning rather than failing.
func Estimate(samples []int16) (book *adpcm.Book, overflows int, err error) {
	window := make([]int16, frameSize*2)
	var data [][]float64

	for start := 0; start+frameSize <= len(samples); start += frameSize {
		copy(window[frameSize:], samples[start:start+frameSize])

		vec := make([]float64, order+1)
		acvect(window, vec)
		if abs(vec[0]) > thresh {
			m := make([][]float64, order+1)
			for i := range m {
				m[i] = make([]float64, order+1)
			}
			acmat(window, m)
			if solve(m, vec) {
				vec[0] = 1.0
				k := make([]float64, order+1)
				if kfroma(vec, k, order) {
					clampReflection(k)
					row := make([]float64, order+1)
					row[0] = 1.0
					afromk(k, row, order)
					data = append(data, row)
				}
			}
		}

		copy(window[:frameSize], window[frameSize:])
	}

	if len(data) == 0 {
		return nil, 0, estimationErrorf("no stable frames found in %d samples", len(samples))
	}

	reflections := make([][]float64, order+1)
	for j := 1; j <= order; j++ {
		reflections[j] = make([]float64, 0, len(data))
	}
	tmp := make([]float64, order+1)
	for _, row := range data {
		rfroma(row, order, tmp)
		for j := 1; j <= order; j++ {
			reflections[j] = append(reflections[j], tmp[j])
		}
	}
	mean := make([]float64, order+1)
	mean[0] = 1.0
	for j := 1; j <= order; j++ {
		mean[j] = stat.Mean(reflections[j], nil)
	}

	table := make([][]float64, 1<<bits)
	for i := range table {
		table[i] = make([]float64, order+1)
	}
	k := make([]float64, order+1)
	durbin(mean, order, k, table[0])
	clampReflection(k)
	afromk(k, table[0], order)

	delta := make([]float64, order+1)
	for curBits := 0; curBits < bits; curBits++ {
		for i := range delta {
			delta[i] = 0
		}
		delta[order-1] = -1.0
		split(table, delta, 1<<curBits, 0.01)
		refine(table, 1<<(curBits+1), data)
	}

	npredictors := 1 << bits
	raw := make([]int16, 0, npredictors*order*8)
	for i := 0; i < npredictors; i++ {
		entry, n := deriveEntry(table[i])
		raw = append(raw, entry...)
		overflows += n
	}

	return adpcm.NewBook(order, npredictors, raw), overflows, nil
}

// WriteTable writes book in the game's .table text format — order and
// npredictors as decimal lines, followed by each predictor's order rows of
// 8 space-padded coefficients — mirroring both aiff_extract_codebook.c's and
// print.c's output. The same format is used whether book was extracted from
// an AIFC's embedded codebook or estimated by Estimate.
func WriteTable(w io.Writer, book *adpcm.Book) error {
	if _, err := fmt.Fprintf(w, "%d\n%d\n", book.Order, book.NPredictors); err != nil {
		return err
	}
	for i := 0; i < book.NPredictors; i++ {
		for j := 0; j < book.Order; j++ {
			for k := 0; k < 8; k++ {
				if _, err := fmt.Fprintf(w, "%5d ", book.Coef[i][k][j]); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
