package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_PlaceholdersFollowArgs(t *testing.T) {
	q := newQuery()
	assert.Equal(t, "", q.whereClause())

	q.where("a.title ILIKE " + q.arg("%x%"))
	q.where(attrExists("category", "t.value = "+q.arg("business")))

	assert.Equal(t, []interface{}{"%x%", "business"}, q.args)
	assert.Equal(t,
		" WHERE a.title ILIKE $1 AND EXISTS (SELECT 1 FROM attributes t WHERE t.article_id = a.id AND t.name = 'category' AND t.value = $2)",
		q.whereClause())
	assert.Equal(t, "$3", q.arg(10))
}
