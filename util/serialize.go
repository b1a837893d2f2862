package util

import (
	"encoding/binary"
	"io"
)

// binarySerializer reads and writes fixed-width little-endian integers using
// a scratch buffer to avoid per-call allocations.
type binarySerializer struct {
	buf [8]byte
}

func (s *binarySerializer) Uint8(r io.Reader) (uint8, error) {
	if _, err := io.ReadFull(r, s.buf[:1]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

func (s *binarySerializer) Uint32(r io.Reader) (uint32, error) {
	if _, err := io.ReadFull(r, s.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s.buf[:4]), nil
}

func (s *binarySerializer) PutUint8(w io.Writer, val uint8) error {
	s.buf[0] = val
	_, err := w.Write(s.buf[:1])
	return err
}

func (s *binarySerializer) PutUint32(w io.Writer, val uint32) error {
	binary.LittleEndian.PutUint32(s.buf[:4], val)
	_, err := w.Write(s.buf[:4])
	return err
}

func ReadElement(r io.Reader, element interface{}) error {
	var s binarySerializer
	switch e := element.(type) {
	case *uint8:
		rv, err := s.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil
	case *int32:
		rv, err := s.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil
	case *uint32:
		rv, err := s.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil
	case *Hash:
		_, err := e.Unserialize(r)
		return err
	}
	return binary.Read(r, binary.LittleEndian, element)
}

func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := ReadElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

func WriteElement(w io.Writer, element interface{}) error {
	var s binarySerializer
	switch e := element.(type) {
	case uint8:
		return s.PutUint8(w, e)
	case int32:
		return s.PutUint32(w, uint32(e))
	case uint32:
		return s.PutUint32(w, e)
	case *Hash:
		_, err := e.Serialize(w)
		return err
	}
	return binary.Write(w, binary.LittleEndian, element)
}

func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := WriteElement(w, element); err != nil {
			return err
		}
	}
	return nil
}
