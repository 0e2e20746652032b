package subscription

type CreatedEvent struct {
	Result Subscription
}

type CanceledEvent struct {
	Result Subscription
}

type ReactivatedEvent struct {
	Result Subscription
}

type AddonPurchasedEvent struct {
	Result Subscription
	Addon  Addon
}
