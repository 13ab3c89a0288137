package memsim

import "github.com/sarchlab/memsim/internal/addrmap"

func schemeOf(s AddressMappingScheme) addrmap.Scheme {
	switch s {
	case RowColumnBank:
		return addrmap.RowColumnBank
	case BankRowColumn:
		return addrmap.BankRowColumn
	case CustomMapping:
		return addrmap.Custom
	default:
		return addrmap.RowBankColumn
	}
}

func orgOf(o OrganizationParams) addrmap.Organization {
	return addrmap.Organization{
		Channels:          o.Channels,
		RanksPerChannel:   o.RanksPerChannel,
		BankGroupsPerRank: o.BankGroupsPerRank,
		BanksPerGroup:     o.BanksPerGroup,
		RowsPerBank:       o.RowsPerBank,
		ColumnsPerRow:     o.ColumnsPerRow,
	}
}

func fieldOf(f AddressField) addrmap.Field {
	switch f {
	case FieldBank:
		return addrmap.FieldBank
	case FieldBankGroup:
		return addrmap.FieldBankGroup
	case FieldRow:
		return addrmap.FieldRow
	case FieldRank:
		return addrmap.FieldRank
	case FieldChannel:
		return addrmap.FieldChannel
	default:
		return addrmap.FieldColumn
	}
}

func customFieldsOf(fields []FieldSlice) []addrmap.FieldSlice {
	out := make([]addrmap.FieldSlice, len(fields))
	for i, f := range fields {
		out[i] = addrmap.FieldSlice{Field: fieldOf(f.Field), Width: f.Width}
	}

	return out
}
