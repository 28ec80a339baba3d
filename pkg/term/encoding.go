package term

import (
	"encoding/binary"
	"fmt"
)

const factEncodingVersion = 1

// MarshalBinary encodes the fact as
//
//	version | indicator name | indicator arity | numVars | numNodes | nodes...
//
// where each node is a tag byte followed by a var number (var), a name
// (atom), or a name, an arity and that many node indices (struct). Names
// are length-prefixed; every integer is a uvarint.
func (f *Fact) MarshalBinary() ([]byte, error) {
	buf := []byte{factEncodingVersion}
	buf = appendString(buf, f.Indicator.Name)
	buf = binary.AppendUvarint(buf, uint64(f.Indicator.Arity))
	buf = binary.AppendUvarint(buf, uint64(f.NumVars))
	buf = binary.AppendUvarint(buf, uint64(len(f.nodes)))
	for _, n := range f.nodes {
		buf = append(buf, byte(n.tag))
		switch n.tag {
		case TagVar:
			buf = binary.AppendUvarint(buf, uint64(n.varNo))
		case TagAtom:
			buf = appendString(buf, n.name)
		case TagStruct:
			buf = appendString(buf, n.name)
			buf = binary.AppendUvarint(buf, uint64(len(n.args)))
			for _, arg := range n.args {
				buf = binary.AppendUvarint(buf, uint64(arg))
			}
		default:
			return nil, fmt.Errorf("cannot encode node with %s", n.tag)
		}
	}
	return buf, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// UnmarshalFact decodes a fact written by MarshalBinary, interning its
// names in syms. Structurally inconsistent input (a root that disagrees
// with the recorded indicator, argument indices past the end, a NumVars
// that disagrees with the variable nodes) yields a *MalformedTermError.
func UnmarshalFact(data []byte, syms *Symbols) (*Fact, error) {
	d := &decoder{buf: data}
	if version := d.readByte(); d.err == nil && version != factEncodingVersion {
		return nil, fmt.Errorf("unknown fact encoding version %d", version)
	}
	name := d.readString()
	arity := d.readInt()
	numVars := d.readInt()
	numNodes := d.readInt()
	if d.err != nil {
		return nil, d.err
	}
	malformed := func(format string, args ...interface{}) error {
		return &MalformedTermError{Functor: name, Arity: arity, Reason: fmt.Sprintf(format, args...)}
	}
	if numNodes == 0 {
		return nil, malformed("no nodes")
	}
	// Every node takes at least one byte, which bounds what we allocate
	// for garbage input.
	if numNodes > len(d.buf) {
		return nil, malformed("%d nodes declared but only %d bytes left", numNodes, len(d.buf))
	}
	// Freeze gives each variable exactly one node.
	if numVars > numNodes {
		return nil, malformed("%d variables declared but only %d nodes", numVars, numNodes)
	}
	varSeen := make([]bool, numVars)

	f := &Fact{
		Indicator: Indicator{Name: name, Arity: arity},
		NumVars:   numVars,
		nodes:     make([]node, numNodes),
		syms:      syms,
	}
	for idx := range f.nodes {
		n := &f.nodes[idx]
		n.tag = Tag(d.readByte())
		switch n.tag {
		case TagVar:
			n.varNo = d.readInt()
			if d.err == nil && n.varNo >= numVars {
				return nil, malformed("node %d is variable %d of %d", idx, n.varNo, numVars)
			}
			if d.err == nil {
				varSeen[n.varNo] = true
			}
		case TagAtom:
			n.name = d.readString()
			if d.err == nil {
				n.sym = syms.Intern(n.name)
			}
		case TagStruct:
			n.name = d.readString()
			nargs := d.readInt()
			if d.err != nil {
				break
			}
			n.sym = syms.Intern(n.name)
			if nargs == 0 {
				return nil, malformed("node %d is %s with no arguments", idx, n.name)
			}
			if nargs > len(d.buf) {
				return nil, malformed("node %d claims %d arguments but only %d bytes left", idx, nargs, len(d.buf))
			}
			n.args = make([]int, nargs)
			for i := range n.args {
				n.args[i] = d.readInt()
				if d.err == nil && n.args[i] >= numNodes {
					return nil, malformed("node %d argument %d points at node %d of %d", idx, i, n.args[i], numNodes)
				}
			}
		default:
			if d.err == nil {
				return nil, malformed("node %d has unknown tag %d", idx, n.tag)
			}
		}
		if d.err != nil {
			return nil, d.err
		}
	}
	if len(d.buf) != 0 {
		return nil, malformed("%d trailing bytes", len(d.buf))
	}

	for varNo, seen := range varSeen {
		if !seen {
			return nil, malformed("variable %d of %d never appears", varNo, numVars)
		}
	}

	root := &f.nodes[0]
	if root.tag == TagVar {
		return nil, malformed("root is a variable")
	}
	if root.name != name || len(root.args) != arity {
		return nil, malformed("root is %s/%d", root.name, len(root.args))
	}
	return f, nil
}

type decoder struct {
	buf []byte
	err error
}

func (d *decoder) readByte() byte {
	if d.err != nil {
		return 0
	}
	if len(d.buf) == 0 {
		d.err = fmt.Errorf("unexpected end of fact encoding")
		return 0
	}
	b := d.buf[0]
	d.buf = d.buf[1:]
	return b
}

func (d *decoder) readInt() int {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf)
	if n <= 0 {
		d.err = fmt.Errorf("bad integer in fact encoding")
		return 0
	}
	d.buf = d.buf[n:]
	if v > uint64(^uint32(0)>>1) {
		d.err = fmt.Errorf("integer %d out of range in fact encoding", v)
		return 0
	}
	return int(v)
}

func (d *decoder) readString() string {
	l := d.readInt()
	if d.err != nil {
		return ""
	}
	if l > len(d.buf) {
		d.err = fmt.Errorf("string of length %d runs past end of fact encoding", l)
		return ""
	}
	s := string(d.buf[:l])
	d.buf = d.buf[l:]
	return s
}
