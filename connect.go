package river

// Connect links output entries of src to input entries of dst: every
// video output to every video input and every audio output to every
// audio input. It returns dst, so calls can be chained:
//
//	Connect(Connect(demux, decode), encode)
//
// Only the edges are recorded here. Data is moved by the units.
func Connect(src, dst *Streamlet) *Streamlet {
	// entries are read one streamlet at a time, src may be dst.
	videoOut, audioOut := src.VideoOut(), src.AudioOut()
	videoIn, audioIn := dst.VideoIn(), dst.AudioIn()
	link(videoOut, videoIn)
	link(audioOut, audioIn)
	return dst
}

// To connects s to dst and returns dst.
func (s *Streamlet) To(dst *Streamlet) *Streamlet {
	return Connect(s, dst)
}

// Link records an edge from one unit to another and returns to. It's a
// no-op if from doesn't implement Linker.
func Link(from, to Unit) Unit {
	if l, ok := from.(Linker); ok {
		l.Link(to)
	}
	return to
}

func link(from, to []Unit) {
	for _, f := range from {
		for _, t := range to {
			Link(f, t)
		}
	}
}
