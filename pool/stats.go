package pool

type Stats struct {
	Elem      string `json:"elem"`
	Layout    string `json:"layout"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
	Live      int    `json:"live"`
	Size      int    `json:"size"`
	Stride    int    `json:"stride"`
	Alignment int    `json:"alignment"`
	Debug     bool   `json:"debug"`
	Closed    bool   `json:"closed"`
}

// Stats walks the free list to count available slots.
func (p *Pool[T]) Stats() Stats {
	st := Stats{
		Elem:      p.lay.name,
		Layout:    p.store.name(),
		Capacity:  p.cap,
		Size:      int(p.lay.size),
		Stride:    int(p.lay.stride),
		Alignment: int(p.lay.align),
		Debug:     p.live != nil,
		Closed:    p.closed,
	}
	if !p.closed {
		st.Available = p.store.available()
		st.Live = p.cap - st.Available
	}
	return st
}
