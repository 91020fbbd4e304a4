package constants

// EntityType tags a recognized span. The set is open but enumerable; taggers
// may emit additional types and downstream consumers must tolerate them.
type EntityType string

const (
	EntityMoney EntityType = "MONEY"
	EntityDate  EntityType = "DATE"
	EntityEmail EntityType = "EMAIL"
	EntityPhone EntityType = "PHONE"
	EntityName  EntityType = "NAME"
)

// NormStatus says whether an entity value was canonicalized or kept raw.
type NormStatus string

const (
	NormOK  NormStatus = "normalized"
	NormRaw NormStatus = "raw" // normalization failed, raw span kept as value
)
