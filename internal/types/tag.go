package types

// ObjectType is the kind of entity a control tag or blocking state is attached to
type ObjectType string

const (
	ObjectTypeAccount ObjectType = "ACCOUNT"
	ObjectTypeBundle  ObjectType = "BUNDLE"
)

func (o ObjectType) String() string {
	return string(o)
}

// ControlTagType is a system tag that changes how billing treats the tagged entity
type ControlTagType string

const (
	// ControlTagAutoInvoicingOff switches invoicing off for the tagged account or bundle
	ControlTagAutoInvoicingOff ControlTagType = "AUTO_INVOICING_OFF"
)

func (t ControlTagType) String() string {
	return string(t)
}
