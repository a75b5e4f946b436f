package constants

const (
	ResourceNotFound    = `{"success":false,"message":"No honey here! We couldn't find this resource anywhere in the hive."}`
	EndpointNotFound    = `{"success":false,"message":"No honey here! This endpoint doesn't exist, check the path and buzz again."}`
	BadRequest          = `{"success":false,"message":"Hold your bees! That request doesn't look right."}`
	Forbidden           = `{"success":false,"message":"Hold your bees! You're not allowed to do this."}`
	Unauthorized        = `{"success":false,"message":"Hold your bees! You need to be logged in for this one."}`
	InternalServerError = `{"success":false,"message":"The hive hiccuped! Something went wrong on our end."}`
	MethodNotAllowed    = `{"success":false,"message":"Hold your bees! That method is not allowed on this endpoint."}`
	BodyRequired        = `{"success":false,"message":"Hold your bees! A body is required for this endpoint."}`

	// SeedItemSlug is the gamification item consumed by super likes.
	SeedItemSlug = "seed"
)
