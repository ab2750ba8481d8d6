package usecase

import (
	"context"
	"fmt"
	"time"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
)

// In-memory fakes for the repository interfaces. They model just enough
// store behavior (counters, ownership, idempotent favorites) to exercise
// the orchestration rules.

type fakeUserRepo struct {
	users  map[string]*entity.User // keyed by id
	nextID int
	failAll error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) addUser(username, email string, active bool) *entity.User {
	r.nextID++
	user := &entity.User{
		ID:       fmt.Sprintf("u%d", r.nextID),
		Username: username,
		Email:    email,
		IsActive: active,
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if r.failAll != nil {
		return r.failAll
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errors.Conflict("Username or email already registered")
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("u%d", r.nextID)
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) List(ctx context.Context, skip, limit int) ([]*entity.User, int64, error) {
	users := []*entity.User{}
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name, ok := fields["full_name"].(string); ok {
		user.FullName = name
	}
	return user, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if r.failAll != nil {
		return false, r.failAll
	}
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if r.failAll != nil {
		return false, r.failAll
	}
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) AdjustProductCount(ctx context.Context, id string, delta int) error {
	if user, ok := r.users[id]; ok {
		user.ProductCount += delta
	}
	return nil
}

func (r *fakeUserRepo) AddFavorite(ctx context.Context, userID, productID string) (bool, error) {
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for _, fav := range user.Favorites {
		if fav.ProductID == productID {
			return false, nil
		}
	}
	user.Favorites = append(user.Favorites, entity.FavoriteEntry{ProductID: productID})
	user.FavoriteCount++
	return true, nil
}

func (r *fakeUserRepo) RemoveFavorite(ctx context.Context, userID, productID string) (bool, error) {
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for i, fav := range user.Favorites {
		if fav.ProductID == productID {
			user.Favorites = append(user.Favorites[:i], user.Favorites[i+1:]...)
			user.FavoriteCount--
			return true, nil
		}
	}
	return false, nil
}

type fakeProductRepo struct {
	users    *fakeUserRepo
	products map[string]*entity.Product
	nextID   int
}

func newFakeProductRepo(users *fakeUserRepo) *fakeProductRepo {
	return &fakeProductRepo{users: users, products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(ctx context.Context, input repository.ProductCreate, sellerID string) (*entity.Product, error) {
	seller, ok := r.users.users[sellerID]
	if !ok {
		return nil, errors.NotFound("Seller", nil)
	}
	r.nextID++
	product := &entity.Product{
		ID:          fmt.Sprintf("p%d", r.nextID),
		Title:       input.Title,
		PriceAmount: input.PriceAmount,
		Status:      entity.ProductStatusActive,
		Seller: entity.SellerEmbedded{
			ID:       seller.ID,
			Username: seller.Username,
		},
	}
	r.products[product.ID] = product
	seller.ProductCount++
	return product, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, errors.NotFound("Product", nil)
}

func (r *fakeProductRepo) GetAll(ctx context.Context, filter repository.ProductFilter, skip, limit int) ([]*entity.Product, error) {
	products := []*entity.Product{}
	for _, product := range r.products {
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, text string, skip, limit int) ([]*entity.Product, error) {
	return r.GetAll(ctx, repository.ProductFilter{}, skip, limit)
}

func (r *fakeProductRepo) Filter(ctx context.Context, filter repository.SearchFilter, skip, limit int) ([]*entity.Product, error) {
	return r.GetAll(ctx, repository.ProductFilter{}, skip, limit)
}

func (r *fakeProductRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title, ok := fields["title"].(string); ok {
		product.Title = title
	}
	return product, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	delete(r.products, id)
	if seller, found := r.users.users[product.Seller.ID]; found {
		seller.ProductCount--
	}
	return true, nil
}

func (r *fakeProductRepo) IncrementViewCount(ctx context.Context, id string) error {
	if product, ok := r.products[id]; ok {
		product.Stats.ViewCount++
	}
	return nil
}

func (r *fakeProductRepo) AdjustFavoriteCount(ctx context.Context, id string, delta int) error {
	if product, ok := r.products[id]; ok {
		product.Stats.FavoriteCount += delta
	}
	return nil
}

func (r *fakeProductRepo) GetPopular(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.GetAll(ctx, repository.ProductFilter{Status: entity.ProductStatusActive}, 0, limit)
}

func (r *fakeProductRepo) TopCategories(ctx context.Context, limit int) ([]entity.CategoryCount, error) {
	return nil, nil
}

type fakeGraphProductRepo struct {
	products  map[string]*entity.GraphProduct
	owners    map[string]string
	favorites map[string]map[string]bool
	recs      []*entity.RecommendedProduct
	nextID    int
	lastLimit int
}

func newFakeGraphProductRepo() *fakeGraphProductRepo {
	return &fakeGraphProductRepo{
		products:  map[string]*entity.GraphProduct{},
		owners:    map[string]string{},
		favorites: map[string]map[string]bool{},
	}
}

func (r *fakeGraphProductRepo) addProduct(owner, status string) *entity.GraphProduct {
	r.nextID++
	product := &entity.GraphProduct{
		ID:     fmt.Sprintf("g%d", r.nextID),
		Title:  "item",
		Status: status,
	}
	r.products[product.ID] = product
	if owner != "" {
		r.owners[product.ID] = owner
	}
	return product
}

func (r *fakeGraphProductRepo) Create(ctx context.Context, sellerUsername string, product *entity.GraphProduct) (*entity.GraphProduct, error) {
	r.nextID++
	product.ID = fmt.Sprintf("g%d", r.nextID)
	product.Status = entity.ProductStatusActive
	r.products[product.ID] = product
	r.owners[product.ID] = sellerUsername
	return product, nil
}

func (r *fakeGraphProductRepo) GetByID(ctx context.Context, id string) (*entity.GraphProduct, error) {
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, errors.NotFound("Product", nil)
}

func (r *fakeGraphProductRepo) List(ctx context.Context, skip, limit int, status string) ([]*entity.GraphProduct, error) {
	products := []*entity.GraphProduct{}
	for _, product := range r.products {
		if status != "" && product.Status != status {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *fakeGraphProductRepo) Popular(ctx context.Context, limit int) ([]*entity.GraphProduct, error) {
	return r.List(ctx, 0, limit, "")
}

func (r *fakeGraphProductRepo) SellerUsername(ctx context.Context, productID string) (string, error) {
	return r.owners[productID], nil
}

func (r *fakeGraphProductRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.GraphProduct, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title, ok := fields["title"].(string); ok {
		product.Title = title
	}
	return product, nil
}

func (r *fakeGraphProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	delete(r.owners, id)
	return true, nil
}

func (r *fakeGraphProductRepo) SetStatus(ctx context.Context, id, status string) (*entity.GraphProduct, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Status = status
	return product, nil
}

func (r *fakeGraphProductRepo) AddFavorite(ctx context.Context, username, productID string) error {
	product, ok := r.products[productID]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	if r.favorites[productID] == nil {
		r.favorites[productID] = map[string]bool{}
	}
	if !r.favorites[productID][username] {
		r.favorites[productID][username] = true
		product.FavoriteCount++
	}
	return nil
}

func (r *fakeGraphProductRepo) TrackView(ctx context.Context, productID, username string) error {
	product, ok := r.products[productID]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	product.ViewCount++
	return nil
}

func (r *fakeGraphProductRepo) Recommendations(ctx context.Context, productID string, limit int) ([]*entity.RecommendedProduct, error) {
	r.lastLimit = limit
	return r.recs, nil
}

type fakeGraphUserRepo struct {
	users map[string]*entity.GraphUser
}

func newFakeGraphUserRepo() *fakeGraphUserRepo {
	return &fakeGraphUserRepo{users: map[string]*entity.GraphUser{}}
}

func (r *fakeGraphUserRepo) Upsert(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error) {
	existing, ok := r.users[user.Username]
	if ok {
		existing.Email = user.Email
		existing.FullName = user.FullName
		existing.IsActive = user.IsActive
		return existing, nil
	}
	r.users[user.Username] = user
	return user, nil
}

func (r *fakeGraphUserRepo) Register(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error) {
	if _, ok := r.users[user.Username]; ok {
		return nil, errors.Conflict("Username already registered")
	}
	user.IsActive = true
	r.users[user.Username] = user
	return user, nil
}

func (r *fakeGraphUserRepo) GetByUsername(ctx context.Context, username string) (*entity.GraphUser, error) {
	if user, ok := r.users[username]; ok {
		return user, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeGraphUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.GraphUser, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeGraphUserRepo) List(ctx context.Context, skip, limit int) ([]*entity.GraphUser, error) {
	users := []*entity.GraphUser{}
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}
