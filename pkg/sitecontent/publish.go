package sitecontent

import "time"

// ApplyPublishIntent resolves a save request's publish inputs into a
// consistent (published, publishedDate) pair on the record.
//
// ActionSaveAndPublish forces publication regardless of the submitted flag;
// otherwise the flag is taken as supplied, with absence meaning false. The
// first transition to published stamps PublishedDate with now unless the
// record already carries one. Moving back to draft keeps PublishedDate: the
// original publish time is history, not state.
func ApplyPublishIntent(rec PublishRecord, published bool, action Action, now time.Time) {
	if action == ActionSaveAndPublish {
		published = true
	}
	rec.SetPublished(published)
	if published && rec.PublishDate() == nil {
		t := now
		rec.SetPublishDate(&t)
	}
}

// FlipPublish toggles the record's publish state. The first flip to published
// stamps PublishedDate like ApplyPublishIntent; the flip to draft changes
// nothing but the flag.
func FlipPublish(rec PublishRecord, now time.Time) {
	rec.SetPublished(!rec.IsPublished())
	if rec.IsPublished() && rec.PublishDate() == nil {
		t := now
		rec.SetPublishDate(&t)
	}
}
