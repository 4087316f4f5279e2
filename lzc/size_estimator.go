package lzc

import "sync"

// SizeEstimator measures compressed sizes without materializing output. It
// keeps a pool of reusable compressors backed by counting sinks, so
// concurrent estimates do not contend on a single dictionary.
type SizeEstimator struct {
	// pool of compressors
	poolLock    sync.Mutex
	compressors []*Compressor

	opts WriterOptions
}

func NewSizeEstimator(o WriterOptions) *SizeEstimator {
	return &SizeEstimator{opts: o}
}

// EstimateLen returns the exact size Compress would produce for d, header
// included.
func (se *SizeEstimator) EstimateLen(d []byte) (int, error) {
	c, err := se.getCompressor()
	if err != nil {
		return 0, err
	}
	defer se.freeCompressor(c)

	if _, err = c.Write(d); err != nil {
		return 0, err
	}
	if err = c.Close(); err != nil {
		return 0, err
	}
	return c.Len(), nil
}

func (se *SizeEstimator) getCompressor() (*Compressor, error) {
	se.poolLock.Lock()
	defer se.poolLock.Unlock()
	if len(se.compressors) == 0 {
		return newCompressor(se.opts, &bitCounter{})
	}
	c := se.compressors[len(se.compressors)-1]
	se.compressors = se.compressors[:len(se.compressors)-1]
	return c, nil
}

func (se *SizeEstimator) freeCompressor(c *Compressor) {
	c.Reset()
	se.poolLock.Lock()
	defer se.poolLock.Unlock()
	se.compressors = append(se.compressors, c)
}

// BestMaxWidth evaluates every permitted width cap on d and returns the one
// producing the smallest output, with that size. The cap trades dictionary
// capacity against code width: a small cap freezes the dictionary early but
// keeps codes narrow, which can win on mid-sized inputs. Ties go to the
// narrower cap.
func BestMaxWidth(d []byte) (uint8, int, error) {
	var (
		best    uint8
		bestLen int
	)
	for w := uint8(MinCodeWidth); w <= MaxCodeWidth; w++ {
		se := NewSizeEstimator(WriterOptions{MaxCodeWidth: w})
		n, err := se.EstimateLen(d)
		if err != nil {
			return 0, 0, err
		}
		if best == 0 || n < bestLen {
			best, bestLen = w, n
		}
	}
	return best, bestLen, nil
}
