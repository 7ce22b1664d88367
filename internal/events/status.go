package events

type EventStatus string

const (
	StatusPending     EventStatus = "pending"
	StatusPublished   EventStatus = "published"
	StatusUnpublished EventStatus = "unpublished"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusUnpublished:
		return true
	}
	return false
}

// TierType is the pricing model of a ticket tier
type TierType string

const (
	TierSingle       TierType = "single"
	TierGroup        TierType = "group"
	TierPackage      TierType = "package"
	TierSubscription TierType = "subscription"
)

func (t TierType) IsValid() bool {
	switch t {
	case TierSingle, TierGroup, TierPackage, TierSubscription:
		return true
	}
	return false
}
