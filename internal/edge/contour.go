package edge

import "image"

// neighbours lists the 8-neighbourhood clockwise (y grows downward),
// starting west.
var neighbours = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// neighbourIndex maps an offset (dx+1, dy+1) to its index in neighbours.
var neighbourIndex = [3][3]int{
	{1, 0, 7}, // dx = -1: dy = -1, 0, 1
	{2, -1, 6},
	{3, 4, 5},
}

// Contours returns the outer border of every 8-connected component of a
// w x h binary mask (non-zero = foreground), in raster order of each
// component's first pixel. Each border is a closed sequence of pixel
// positions traced clockwise; the closing point is not repeated.
func Contours(mask []uint8, w, h int) [][]image.Point {
	visited := make([]bool, w*h)
	queue := make([]int, 0, 1024)
	var contours [][]image.Point

	for i, v := range mask {
		if v == 0 || visited[i] {
			continue
		}

		// Label the whole component so it is traced once.
		size := 0
		visited[i] = true
		queue = append(queue[:0], i)
		for len(queue) > 0 {
			j := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			size++
			x, y := j%w, j/w
			for _, d := range neighbours {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				k := ny*w + nx
				if mask[k] != 0 && !visited[k] {
					visited[k] = true
					queue = append(queue, k)
				}
			}
		}

		contours = append(contours, traceBorder(mask, w, h, image.Pt(i%w, i/w), size))
	}
	return contours
}

// traceBorder follows the outer border of the component containing start
// with Moore-neighbour tracing and Jacob's stopping criterion. start must
// be the component's first pixel in raster order, so its west neighbour
// is background.
func traceBorder(mask []uint8, w, h int, start image.Point, size int) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && mask[p.Y*w+p.X] != 0
	}

	border := []image.Point{start}
	cur := start
	back := start.Add(neighbours[0])
	startBack := back

	// Every border pixel is entered at most four times.
	limit := 4*size + 8
	for range limit {
		d := back.Sub(cur)
		from := neighbourIndex[d.X+1][d.Y+1]

		moved := false
		for k := 1; k <= 8; k++ {
			nd := (from + k) % 8
			p := cur.Add(neighbours[nd])
			if inside(p) {
				back = cur.Add(neighbours[(nd+7)%8])
				cur = p
				moved = true
				break
			}
		}
		if !moved {
			// Isolated pixel.
			break
		}
		if cur == start && back == startBack {
			break
		}
		border = append(border, cur)
	}
	return border
}
