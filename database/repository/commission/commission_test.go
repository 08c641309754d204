package commissionRepo

import (
	"testing"
	"time"

	"ziyonstar/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertUpdate_IsActive(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	doc := upsertUpdate(models.CommissionInput{Category: "General", Type: models.CommissionPercentage, Value: 10}, "c-1", now)
	set := doc["$set"].(bson.M)
	onInsert := doc["$setOnInsert"].(bson.M)
	assert.NotContains(t, set, "isActive", "an update without the flag keeps the stored value")
	assert.Equal(t, true, onInsert["isActive"], "new policies start active")
	assert.Equal(t, "c-1", onInsert["id"])
	assert.Equal(t, now, set["updatedAt"])

	off := false
	doc = upsertUpdate(models.CommissionInput{Category: "General", Type: models.CommissionFixed, Value: 50, IsActive: &off}, "c-2", now)
	assert.Equal(t, false, doc["$set"].(bson.M)["isActive"])
	assert.NotContains(t, doc["$setOnInsert"].(bson.M), "isActive")
}
