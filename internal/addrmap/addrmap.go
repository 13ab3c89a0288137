// Package addrmap decodes a physical address into (channel, rank,
// bank-group, bank, row, column) per one of four configurable
// mapping schemes.
package addrmap

import (
	"fmt"
	"math/bits"
)

// Scheme selects the bit layout used to decode an address.
type Scheme int

const (
	RowBankColumn Scheme = iota
	RowColumnBank
	BankRowColumn
	Custom
)

// Field names one decoded address field. A Custom scheme assigns
// each field an ordered, contiguous bit slice.
type Field int

const (
	FieldColumn Field = iota
	FieldBank
	FieldBankGroup
	FieldRow
	FieldRank
	FieldChannel
)

// FieldSlice is one entry of a Custom mapping: Width bits, consumed
// from the address starting at the low bit and moving upward in the
// order slices appear, are assigned to Field.
type FieldSlice struct {
	Field Field
	Width int
}

// Organization carries the physical dimensions the decoder needs to
// size each field's bit width.
type Organization struct {
	Channels          int
	RanksPerChannel   int
	BankGroupsPerRank int
	BanksPerGroup     int
	RowsPerBank       int
	ColumnsPerRow     int
}

// Decoded is the result of decoding one address.
type Decoded struct {
	Channel   int
	Rank      int
	BankGroup int
	Bank      int
	Row       int
	Column    int
}

// Decoder decodes physical addresses for one fixed scheme and
// organization.
type Decoder struct {
	scheme Scheme
	org    Organization
	custom []FieldSlice

	columnBits    int
	bankBits      int
	bankGroupBits int
	rowBits       int
	rankBits      int
	channelBits   int
}

// New builds a Decoder. For Custom, fields must cover exactly
// FieldColumn through FieldChannel once each; New returns an error
// otherwise.
func New(scheme Scheme, org Organization, custom []FieldSlice) (*Decoder, error) {
	d := &Decoder{scheme: scheme, org: org, custom: custom}

	d.columnBits = log2Ceil(org.ColumnsPerRow)
	d.bankBits = log2Ceil(org.BanksPerGroup)
	d.bankGroupBits = log2Ceil(org.BankGroupsPerRank)
	d.rowBits = log2Ceil(org.RowsPerBank)
	d.rankBits = log2Ceil(org.RanksPerChannel)
	d.channelBits = log2Ceil(org.Channels)

	if scheme == Custom {
		if err := validateCustomFields(custom); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// log2Ceil returns the number of bits needed to represent values in
// [0, n), i.e. ceil(log2(n)), with n <= 1 requiring zero bits.
func log2Ceil(n int) int {
	if n <= 1 {
		return 0
	}

	return bits.Len(uint(n - 1))
}

func validateCustomFields(fields []FieldSlice) error {
	seen := map[Field]bool{}

	for _, f := range fields {
		if seen[f.Field] {
			return fmt.Errorf("addrmap: field %d specified more than once", f.Field)
		}

		seen[f.Field] = true
	}

	for f := FieldColumn; f <= FieldChannel; f++ {
		if !seen[f] {
			return fmt.Errorf("addrmap: custom mapping missing field %d", f)
		}
	}

	return nil
}

// Decode maps a physical address to its six fields, or returns an
// error if the address has bits set above the fields the scheme
// decodes, or if the decoded row, bank, rank, or channel index is out
// of range for the configured organization.
func (d *Decoder) Decode(address uint64) (Decoded, error) {
	var out Decoded

	switch d.scheme {
	case RowBankColumn:
		out = d.decodeRowBankColumn(address)
	case RowColumnBank:
		out = d.decodeRowColumnBank(address)
	case BankRowColumn:
		out = d.decodeBankRowColumn(address)
	default:
		out = d.decodeCustom(address)
	}

	width := d.columnBits + d.bankBits + d.bankGroupBits + d.rowBits + d.rankBits + d.channelBits
	if d.scheme == Custom {
		width = 0
		for _, slice := range d.custom {
			width += slice.Width
		}
	}

	if width < 64 && address>>uint(width) != 0 {
		return out, fmt.Errorf("addrmap: address 0x%x has bits above the %d decoded bits", address, width)
	}

	if d.org.RowsPerBank > 0 && out.Row >= d.org.RowsPerBank {
		return out, fmt.Errorf("addrmap: row %d out of range (rows_per_bank=%d)", out.Row, d.org.RowsPerBank)
	}

	if d.org.BanksPerGroup > 0 && out.Bank >= d.org.BanksPerGroup {
		return out, fmt.Errorf("addrmap: bank %d out of range", out.Bank)
	}

	if d.org.RanksPerChannel > 0 && out.Rank >= d.org.RanksPerChannel {
		return out, fmt.Errorf("addrmap: rank %d out of range", out.Rank)
	}

	if d.org.Channels > 0 && out.Channel >= d.org.Channels {
		return out, fmt.Errorf("addrmap: channel %d out of range", out.Channel)
	}

	return out, nil
}

// decodeRowBankColumn: column low, then bank group, bank, row, rank, channel.
func (d *Decoder) decodeRowBankColumn(address uint64) Decoded {
	a := address
	column := takeBits(&a, d.columnBits)
	bankGroup := takeBits(&a, d.bankGroupBits)
	bank := takeBits(&a, d.bankBits)
	row := takeBits(&a, d.rowBits)
	rank := takeBits(&a, d.rankBits)
	channel := takeBits(&a, d.channelBits)

	return Decoded{Channel: channel, Rank: rank, BankGroup: bankGroup, Bank: bank, Row: row, Column: column}
}

// decodeRowColumnBank: column low, then row, then bank fields,
// favoring strided access across banks.
func (d *Decoder) decodeRowColumnBank(address uint64) Decoded {
	a := address
	column := takeBits(&a, d.columnBits)
	row := takeBits(&a, d.rowBits)
	bankGroup := takeBits(&a, d.bankGroupBits)
	bank := takeBits(&a, d.bankBits)
	rank := takeBits(&a, d.rankBits)
	channel := takeBits(&a, d.channelBits)

	return Decoded{Channel: channel, Rank: rank, BankGroup: bankGroup, Bank: bank, Row: row, Column: column}
}

// decodeBankRowColumn: column low, then bank fields immediately
// above, interleaving banks first across consecutive rows.
func (d *Decoder) decodeBankRowColumn(address uint64) Decoded {
	a := address
	column := takeBits(&a, d.columnBits)
	bankGroup := takeBits(&a, d.bankGroupBits)
	bank := takeBits(&a, d.bankBits)
	rank := takeBits(&a, d.rankBits)
	channel := takeBits(&a, d.channelBits)
	row := takeBits(&a, d.rowBits)

	return Decoded{Channel: channel, Rank: rank, BankGroup: bankGroup, Bank: bank, Row: row, Column: column}
}

func (d *Decoder) decodeCustom(address uint64) Decoded {
	a := address
	var out Decoded

	for _, slice := range d.custom {
		v := takeBits(&a, slice.Width)

		switch slice.Field {
		case FieldColumn:
			out.Column = v
		case FieldBank:
			out.Bank = v
		case FieldBankGroup:
			out.BankGroup = v
		case FieldRow:
			out.Row = v
		case FieldRank:
			out.Rank = v
		case FieldChannel:
			out.Channel = v
		}
	}

	return out
}

// takeBits consumes the low n bits of *a and advances *a past them.
func takeBits(a *uint64, n int) int {
	if n <= 0 {
		return 0
	}

	mask := uint64(1)<<uint(n) - 1
	v := *a & mask
	*a >>= uint(n)

	return int(v)
}
