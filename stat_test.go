package extalloc

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	assert := assert.New(t)

	a := newTestArena(100)
	a.Alloc(30, 0)
	b, _ := a.Alloc(20, 0)
	b.Free()

	stats := a.Stats()
	assert.Equal(1, stats.Blocks)
	assert.Equal(uint64(30), stats.TotalSize)
	assert.Equal(uint64(100), stats.MaxSize)
	assert.Equal(uint64(70), stats.FreeSize)
	assert.InDelta(0.3, stats.Utilization(), 1e-9)
}

func TestMarshalJSON(t *testing.T) {
	assert := assert.New(t)

	a := newTestArena(100)
	a.Alloc(30, 0)
	a.Alloc(20, 16)

	data, err := a.MarshalJSON()
	assert.Nil(err)

	var v arenaJSON
	assert.Nil(sonic.Unmarshal(data, &v))
	assert.Equal(2, v.Stats.Blocks)
	assert.Equal([][2]uint64{{0, 30}, {32, 20}}, v.Extents)
}

func TestPrintDetailedMap(t *testing.T) {
	assert := assert.New(t)

	a := newTestArena(100)
	a.Alloc(30, 0)
	a.Alloc(20, 64)

	data, err := a.PrintDetailedMap()
	assert.Nil(err)

	var v struct {
		MaxSize    int `json:"maxSize"`
		TotalSize  int `json:"totalSize"`
		Contiguous int `json:"contiguous"`
		Ranges     []struct {
			Type  string `json:"type"`
			Start int    `json:"start"`
			Size  int    `json:"size"`
		} `json:"ranges"`
	}
	assert.Nil(sonic.Unmarshal(data, &v))

	assert.Equal(100, v.MaxSize)
	assert.Equal(50, v.TotalSize)

	// extent [0,30), free [30,64), extent [64,84), free [84,100)
	assert.Len(v.Ranges, 4)
	assert.Equal("extent", v.Ranges[0].Type)
	assert.Equal("free", v.Ranges[1].Type)
	assert.Equal(34, v.Ranges[1].Size)
	assert.Equal("extent", v.Ranges[2].Type)
	assert.Equal(64, v.Ranges[2].Start)
	assert.Equal("free", v.Ranges[3].Type)
}
