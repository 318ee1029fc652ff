// Package management is a small client for the Kontent.ai Management API v2.
//
// It covers the single write the widget needs: upserting the language variant
// of a content item addressed by codenames.
//
//	client, err := management.New(projectID, apiKey)
//	if err != nil {
//	    return err
//	}
//	_, err = client.UpsertLanguageVariant(ctx, management.UpsertRequest{
//	    ItemCodename:     "my_article",
//	    LanguageCodename: "default",
//	    Elements: []management.ElementValue{
//	        management.TextElement("content", "Fly Further."),
//	    },
//	})
//
// A Client is an authenticated session: the project id and the management key
// are bound at construction and every request carries the key as a bearer
// token.
package management
