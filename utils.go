package extalloc

// alignUp rounds n up to the next multiple of align. Alignments of 0 and
// 1 leave n untouched.
func alignUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
