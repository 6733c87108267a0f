package products

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// CreateProduct adds a product to a producer's catalogue.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if product.Name == "" || product.ProducerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and producerId are required")
		return
	}

	count, err := db.ProducersCollection.CountDocuments(r.Context(),
		bson.M{"producerId": product.ProducerID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown producer")
		return
	}

	// Tags are normalised: trimmed, lowercased, deduplicated.
	product.Tags = utils.SplitTags(strings.Join(product.Tags, ","))
	product.ProductID = utils.GenerateID("p", 10)
	product.SaleDates = []string{}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductsCollection.InsertOne(r.Context(), product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// GetProducts lists products, filterable by producer and category.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	q := r.URL.Query()
	if producerID := q.Get("producer"); producerID != "" {
		filter["producerId"] = producerID
	}
	if categoryID := q.Get("category"); categoryID != "" {
		filter["categoryId"] = categoryID
	}
	if q.Get("organic") == "true" {
		filter["isOrganic"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := db.ProductsCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	products := []models.Product{}
	if err := cursor.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product with its variants.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductsCollection.FindOne(r.Context(),
		bson.M{"productId": ps.ByName("productId")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	cursor, err := db.VariantsCollection.Find(r.Context(),
		bson.M{"productId": product.ProductID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch variants")
		return
	}
	variants := []models.Variant{}
	if err := cursor.All(r.Context(), &variants); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch variants")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"product": product, "variants": variants})
}

// UpdateProduct edits a product's sheet.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		CategoryID  string   `json:"categoryId"`
		IsOrganic   *bool    `json:"isOrganic"`
		Tags        []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != "" {
		set["name"] = patch.Name
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.CategoryID != "" {
		set["categoryId"] = patch.CategoryID
	}
	if patch.IsOrganic != nil {
		set["isOrganic"] = *patch.IsOrganic
	}
	if patch.Tags != nil {
		set["tags"] = utils.SplitTags(strings.Join(patch.Tags, ","))
	}

	res, err := db.ProductsCollection.UpdateOne(r.Context(),
		bson.M{"productId": ps.ByName("productId")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "product updated", nil)
}

// DeleteProduct removes a product, its variants and its offer items.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productId")
	ctx := r.Context()

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	if _, err := db.VariantsCollection.DeleteMany(ctx, bson.M{"productId": productID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete variants")
		return
	}
	if _, err := db.OfferItemsCollection.DeleteMany(ctx, bson.M{"productId": productID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete offer items")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "product deleted", nil)
}

// CreateVariant adds a packaging variant to a product.
func CreateVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var variant models.Variant
	if err := json.NewDecoder(r.Body).Decode(&variant); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if variant.Label == "" || variant.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "label and a positive price are required")
		return
	}

	productID := ps.ByName("productId")
	count, err := db.ProductsCollection.CountDocuments(r.Context(), bson.M{"productId": productID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	variant.VariantID = utils.GenerateID("v", 10)
	variant.ProductID = productID
	variant.ActiveDates = []string{}

	if _, err := db.VariantsCollection.InsertOne(r.Context(), variant); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create variant")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, variant)
}

// UpdateVariant edits a variant's label, unit or price. Price changes
// do not touch offer items already saved: those keep the price they
// were configured with.
func UpdateVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch struct {
		Label string  `json:"label"`
		Type  string  `json:"type"`
		Unit  string  `json:"unit"`
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{}
	if patch.Label != "" {
		set["label"] = patch.Label
	}
	if patch.Type != "" {
		set["type"] = patch.Type
	}
	if patch.Unit != "" {
		set["unit"] = patch.Unit
	}
	if patch.Price > 0 {
		set["price"] = patch.Price
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	res, err := db.VariantsCollection.UpdateOne(r.Context(),
		bson.M{"variantId": ps.ByName("variantId"), "productId": ps.ByName("productId")},
		bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update variant")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "variant not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "variant updated", nil)
}

// DeleteVariant removes a variant and its offer items.
func DeleteVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	res, err := db.VariantsCollection.DeleteOne(ctx,
		bson.M{"variantId": ps.ByName("variantId"), "productId": ps.ByName("productId")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete variant")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "variant not found")
		return
	}
	if _, err := db.OfferItemsCollection.DeleteMany(ctx,
		bson.M{"variantId": ps.ByName("variantId")}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete offer items")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "variant deleted", nil)
}

// thumbWidth is the pixel width of product list thumbnails.
const thumbWidth = 330

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./static/productpic"
}

// UploadProductImage stores a product photo and its thumbnail.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productId")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	dir := uploadDir()
	filename, err := utils.SaveUploadedImage(file, header, dir)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.CreateThumb(filename, dir, thumbWidth); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create thumbnail")
		return
	}

	imageURL := "/static/productpic/" + filename
	res, err := db.ProductsCollection.UpdateOne(r.Context(),
		bson.M{"productId": productID},
		bson.M{"$set": bson.M{"imageUrl": imageURL, "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"imageUrl": imageURL})
}
