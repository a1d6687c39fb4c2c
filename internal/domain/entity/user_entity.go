package entity

// User is the aggregate root for the users domain.
// Address (with its Geo) and Company are owned by the user: they are created,
// replaced and deleted together with it.
type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Address  *Address `json:"address"`
	Company  *Company `json:"company"`
}

type Address struct {
	ID      int64  `json:"id"`
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     *Geo   `json:"geo"`
}

type Geo struct {
	ID  int64  `json:"id"`
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}
