package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aquasecurity/table"
	"github.com/milk9111/tilemap/tiled"
)

func printLayers(w io.Writer, m *tiled.Map) {
	tbl := table.New(w)
	tbl.SetBorders(false)
	tbl.SetHeaders("Index", "Name", "Kind", "Visible", "Opacity", "Contents")
	for i, l := range m.Layers {
		kind, contents := "objects", fmt.Sprintf("%d objects", len(l.Objects()))
		if tl, ok := l.(*tiled.TileLayer); ok {
			kind = "tiles"
			contents = fmt.Sprintf("%dx%d cells, %d set", tl.Width, tl.Height, countCells(tl))
		}
		tbl.AddRow(strconv.Itoa(i), l.Name(), kind, strconv.FormatBool(l.Visible()),
			strconv.FormatFloat(l.Opacity(), 'f', 2, 64), contents)
	}
	tbl.Render()
}

func countCells(l *tiled.TileLayer) int {
	n := 0
	for _, c := range l.Cells {
		if c != nil {
			n++
		}
	}
	return n
}
