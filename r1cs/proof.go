package r1cs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// GateProof is the per-multiplication-gate Schnorr-style proof that
// o = l*r for the gate's three committed wires.
type GateProof struct {
	A1, A2           pedersen.Point
	Zr, Zbeta, Zgamma scalar.Element
}

// Proof is the proof object produced by Prover.Prove and consumed by
// Verifier.Verify: spec.md's "proof bytes", with a round-trippable
// ToBytes/FromBytes serialization (spec §6's "bit-for-bit round trip"
// requirement).
type Proof struct {
	GeneratorCount     int
	Commitments        []pedersen.Point
	ConstraintOpenings []scalar.Element
	GateProofs         []GateProof
}

// ToBytes serializes the proof: a little framing header (counts) then
// the fixed-width point/scalar payloads in order.
func (pf *Proof) ToBytes() []byte {
	var buf bytes.Buffer
	writeUint32(&buf, uint32(pf.GeneratorCount))
	writeUint32(&buf, uint32(len(pf.Commitments)))
	writeUint32(&buf, uint32(len(pf.ConstraintOpenings)))
	writeUint32(&buf, uint32(len(pf.GateProofs)))

	for _, c := range pf.Commitments {
		b := c.Bytes()
		buf.Write(b[:])
	}
	for _, s := range pf.ConstraintOpenings {
		b := scalar.ScalarToBE(&s)
		buf.Write(b)
	}
	for _, g := range pf.GateProofs {
		a1 := g.A1.Bytes()
		a2 := g.A2.Bytes()
		buf.Write(a1[:])
		buf.Write(a2[:])
		buf.Write(scalar.ScalarToBE(&g.Zr))
		buf.Write(scalar.ScalarToBE(&g.Zbeta))
		buf.Write(scalar.ScalarToBE(&g.Zgamma))
	}
	return buf.Bytes()
}

// FromBytes parses the wire format ToBytes produces.
func FromBytes(data []byte) (*Proof, error) {
	r := bytes.NewReader(data)
	genCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading proof header: %w", err)
	}
	numCommits, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading proof header: %w", err)
	}
	numConstraints, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading proof header: %w", err)
	}
	numGates, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading proof header: %w", err)
	}

	pf := &Proof{GeneratorCount: int(genCount)}

	for i := uint32(0); i < numCommits; i++ {
		var raw [32]byte
		if _, err := r.Read(raw[:]); err != nil {
			return nil, fmt.Errorf("reading commitment %d: %w", i, err)
		}
		var p pedersen.Point
		if _, err := p.SetBytes(raw[:]); err != nil {
			return nil, fmt.Errorf("decompressing commitment %d: %w", i, err)
		}
		pf.Commitments = append(pf.Commitments, p)
	}
	for i := uint32(0); i < numConstraints; i++ {
		var raw [32]byte
		if _, err := r.Read(raw[:]); err != nil {
			return nil, fmt.Errorf("reading constraint opening %d: %w", i, err)
		}
		var s scalar.Element
		s.SetBytes(raw[:])
		pf.ConstraintOpenings = append(pf.ConstraintOpenings, s)
	}
	for i := uint32(0); i < numGates; i++ {
		gp, err := readGateProof(r)
		if err != nil {
			return nil, fmt.Errorf("reading gate proof %d: %w", i, err)
		}
		pf.GateProofs = append(pf.GateProofs, gp)
	}
	return pf, nil
}

func readGateProof(r *bytes.Reader) (GateProof, error) {
	var gp GateProof
	var a1, a2 [32]byte
	if _, err := r.Read(a1[:]); err != nil {
		return gp, err
	}
	if _, err := r.Read(a2[:]); err != nil {
		return gp, err
	}
	if _, err := gp.A1.SetBytes(a1[:]); err != nil {
		return gp, err
	}
	if _, err := gp.A2.SetBytes(a2[:]); err != nil {
		return gp, err
	}
	for _, dst := range []*scalar.Element{&gp.Zr, &gp.Zbeta, &gp.Zgamma} {
		var raw [32]byte
		if _, err := r.Read(raw[:]); err != nil {
			return gp, err
		}
		dst.SetBytes(raw[:])
	}
	return gp, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
