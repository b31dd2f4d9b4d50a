/*
Package river allows to group media processing units into nodes and
assemble nodes into a graph.

Concept

The package doesn't process any media. It's based on the idea that a
media pipeline consists of three levels:

    Unit - atomic processing element, provided by the user;
    Streamlet - named group of units which share a group id;
    River - graph of streamlets keyed by their tags.

Calls to river are fanned out to streamlets and calls to streamlets are
fanned out to units. Fan-out is best effort: a unit which fails to stop
doesn't prevent its siblings from stopping. Errors are not returned from
lifecycle calls, they have to be polled with Err or Errors.

Tags

Every streamlet is identified by a tag, the pair of name and category.
Categories are interned ids, new ones are added with RegisterCategory:

    transcode := river.RegisterCategory("Transcode")
    s := river.NewStreamlet(river.WithTag(transcode.Tag("hd")))

Connections

Streamlets expose four lists of entries: audio and video inputs and
outputs. Entries are set explicitly and are used only to connect
streamlets:

    demux.SetVideoOut(demuxer)
    decode.SetVideoIn(decoder)
    river.Connect(demux, decode)

Connect links every output entry to every input entry of the same media
type and returns the destination, so calls can be chained with To:

    demux.To(decode).To(encode)

Units which feed other units implement Linker. Moving data between linked
units is up to the units.

Locking

Every streamlet and every river has its own mutex. River calls hold the
river mutex for the whole call and lock streamlets one at a time. There
is no snapshot of the whole graph.
*/
package river
