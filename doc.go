// Package searchable is an in-process Go client for layout-aware full-text
// search over application records.
//
// The application keeps its records wherever it likes; searchable mirrors the
// searchable attributes into an Elasticsearch cluster or an embedded bleve
// index and maps hits back to the application's own values.
//
//	type Post struct {
//	    ID     string `searchable:"id,id"`
//	    Title  string `searchable:"title,weight=2"`
//	    Body   string `searchable:"body"`
//	    Author string `searchable:"author,store"`
//	}
//
//	client, _ := searchable.New(ctx, searchable.WithBleve(""))
//	posts, _ := searchable.NewIndex[Post](client, "Post")
//	_ = posts.Save(ctx, post)
//	hits, _ := posts.Search().Query("ghbdtn").Do(ctx, loadPosts)
//
// Text typed with the wrong keyboard layout active ("ghbdtn" for "привет")
// matches as if it had been typed correctly.
package searchable
