package mailer

import "time"

// RecipePublished is the JSON payload put on the RabbitMQ queue when an
// author publishes a recipe. The worker fans it out to the author's
// subscribers; the API process never blocks on mail delivery.
type RecipePublished struct {
	RecipeID    int64     `json:"recipe_id"`
	RecipeName  string    `json:"recipe_name"`
	RecipeURL   string    `json:"recipe_url"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	PublishedAt time.Time `json:"published_at"`
}
