package templating

// Kind names a generator in the dispatch table.
type Kind string

const (
	KindReference              Kind = "reference"
	KindTransactionID          Kind = "transaction_id"
	KindContractID             Kind = "contract_id"
	KindContractDebtorID       Kind = "contract_debtor_id"
	KindSerialCollateralID     Kind = "serial_collateral_id"
	KindTransactionCreated     Kind = "transaction_created"
	KindFirstName              Kind = "first_name"
	KindLastName               Kind = "last_name"
	KindRegistrationToday      Kind = "registration_today"
	KindRegistrationMinus11Mon Kind = "registration_minus_11_months"
	KindExpiryDate             Kind = "expiry_date"
	KindRegistrationNumber     Kind = "registration_number"
)

// Field names as they appear in the workbook.
const (
	FieldReference                  = "Reference"
	FieldTransactionID              = "TransactionId"
	FieldContractID                 = "ContractId"
	FieldContractDebtorID           = "ContractDebtorId"
	FieldSerialCollateralID         = "ContractSerialCollateralId"
	FieldTransactionCreatedDateTime = "TransactionCreatedDateTime"
	FieldFirstName                  = "FirstName"
	FieldLastName                   = "LastName"
	FieldRegistrationDate           = "RegistrationDate"
	FieldExpiryDate                 = "ExpiryDate"
)

// sentinels maps each templated field to the placeholder strings it accepts.
var sentinels = map[string]map[string]Kind{
	FieldReference:                  {"$Getreference": KindReference},
	FieldTransactionID:              {"$GetTransactionID": KindTransactionID},
	FieldContractID:                 {"$GetContractID": KindContractID},
	FieldContractDebtorID:           {"$GetContractDebtorID": KindContractDebtorID},
	FieldSerialCollateralID:         {"$GetContractSerialCollateralId": KindSerialCollateralID},
	FieldTransactionCreatedDateTime: {"$GetTransactionCreatedDateTime": KindTransactionCreated},
	FieldFirstName:                  {"$GetFirstName": KindFirstName},
	FieldLastName:                   {"$GetLastName": KindLastName},
	FieldRegistrationDate: {
		"$GetCurrentDateMinus35":       KindRegistrationToday,
		"$GetCurrentDateMinus11Months": KindRegistrationMinus11Mon,
	},
	FieldExpiryDate: {"$GetExpiryDt": KindExpiryDate},
}

// Value is either a literal passed through unchanged or a request to
// generate a fresh value of some kind.
type Value struct {
	literal  string
	kind     Kind
	generate bool
}

func Literal(s string) Value {
	return Value{literal: s}
}

func Generate(k Kind) Value {
	return Value{kind: k, generate: true}
}

// Kind reports the generator kind and whether v is a generate request.
func (v Value) Kind() (Kind, bool) {
	return v.kind, v.generate
}

func (v Value) Literal() string {
	return v.literal
}

func (v Value) String() string {
	if v.generate {
		return "generate(" + string(v.kind) + ")"
	}
	return v.literal
}

// Parse classifies a raw cell value for field. Matching is exact: any other
// value, blank included, is a literal.
func Parse(field, raw string) Value {
	if kinds, ok := sentinels[field]; ok {
		if k, ok := kinds[raw]; ok {
			return Generate(k)
		}
	}
	return Literal(raw)
}

// ParseOptional is Parse for fields that may be missing from the row. A
// missing value falls back to the field's default generator, if any.
func ParseOptional(field string, raw *string) Value {
	if raw == nil {
		if field == FieldExpiryDate {
			return Generate(KindExpiryDate)
		}
		return Literal("")
	}
	return Parse(field, *raw)
}
