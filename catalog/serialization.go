// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/shoprank/core"
)

// Serializers are composed by hand from mus-go primitives. Field order is
// the wire format; append new fields at the end only.

// IDSer serializes core.ID values.
var IDSer = idSer{}

type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

// timeSer serializes timestamps as microseconds since the Unix epoch.
type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

var timeMUS = timeSer{}

// stringSliceSer serializes a []string with a varint length prefix.
type stringSliceSer struct{}

func (stringSliceSer) Marshal(v []string, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func (stringSliceSer) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]string, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (stringSliceSer) Size(v []string) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

var stringSliceMUS = stringSliceSer{}

// vectorSer serializes a []float32 embedding with a varint length prefix.
type vectorSer struct{}

func (vectorSer) Marshal(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorSer) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (vectorSer) Size(v []float32) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

var vectorMUS = vectorSer{}

// ProductSer serializes core.Product values.
var ProductSer = productSer{}

type productSer struct{}

func (productSer) Marshal(p core.Product, bs []byte) (n int) {
	n = IDSer.Marshal(p.Id, bs)
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.Category, bs[n:])
	n += ord.String.Marshal(p.Brand, bs[n:])
	n += ord.String.Marshal(p.ShortDescription, bs[n:])
	n += ord.String.Marshal(p.Description, bs[n:])
	n += ord.String.Marshal(p.Color, bs[n:])
	n += raw.Float64.Marshal(p.Price, bs[n:])
	n += ord.String.Marshal(p.Currency, bs[n:])
	n += stringSliceMUS.Marshal(p.Tags, bs[n:])
	n += vectorMUS.Marshal(p.Embedding, bs[n:])
	n += timeMUS.Marshal(p.InsertedAt, bs[n:])
	n += timeMUS.Marshal(p.UpdatedAt, bs[n:])
	return n
}

func (productSer) Unmarshal(bs []byte) (p core.Product, n int, err error) {
	var n1 int
	if p.Id, n, err = IDSer.Unmarshal(bs); err != nil {
		return p, n, err
	}
	if p.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Brand, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.ShortDescription, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Color, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Price, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Currency, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Embedding, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	return p, n, nil
}

func (productSer) Size(p core.Product) (size int) {
	size = IDSer.Size(p.Id)
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.Category)
	size += ord.String.Size(p.Brand)
	size += ord.String.Size(p.ShortDescription)
	size += ord.String.Size(p.Description)
	size += ord.String.Size(p.Color)
	size += raw.Float64.Size(p.Price)
	size += ord.String.Size(p.Currency)
	size += stringSliceMUS.Size(p.Tags)
	size += vectorMUS.Size(p.Embedding)
	size += timeMUS.Size(p.InsertedAt)
	size += timeMUS.Size(p.UpdatedAt)
	return size
}

// CustomerSer serializes core.Customer values.
var CustomerSer = customerSer{}

type customerSer struct{}

func (customerSer) Marshal(c core.Customer, bs []byte) (n int) {
	n = IDSer.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Name, bs[n:])
	n += varint.Int.Marshal(c.Age, bs[n:])
	n += varint.Int.Marshal(int(c.Gender), bs[n:])
	n += ord.String.Marshal(c.City, bs[n:])
	n += ord.String.Marshal(c.Country, bs[n:])
	n += ord.String.Marshal(c.Email, bs[n:])
	n += ord.String.Marshal(c.Phone, bs[n:])
	n += timeMUS.Marshal(c.InsertedAt, bs[n:])
	n += timeMUS.Marshal(c.UpdatedAt, bs[n:])
	return n
}

func (customerSer) Unmarshal(bs []byte) (c core.Customer, n int, err error) {
	var n1 int
	if c.Id, n, err = IDSer.Unmarshal(bs); err != nil {
		return c, n, err
	}
	if c.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Age, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	var gender int
	if gender, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	c.Gender = core.Gender(gender)
	n += n1
	if c.City, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Country, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Email, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Phone, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return c, n, nil
}

func (customerSer) Size(c core.Customer) (size int) {
	size = IDSer.Size(c.Id)
	size += ord.String.Size(c.Name)
	size += varint.Int.Size(c.Age)
	size += varint.Int.Size(int(c.Gender))
	size += ord.String.Size(c.City)
	size += ord.String.Size(c.Country)
	size += ord.String.Size(c.Email)
	size += ord.String.Size(c.Phone)
	size += timeMUS.Size(c.InsertedAt)
	size += timeMUS.Size(c.UpdatedAt)
	return size
}

// TransactionSer serializes core.Transaction values.
var TransactionSer = transactionSer{}

type transactionSer struct{}

func (transactionSer) Marshal(t core.Transaction, bs []byte) (n int) {
	n = IDSer.Marshal(t.Id, bs)
	n += IDSer.Marshal(t.ProductId, bs[n:])
	n += IDSer.Marshal(t.CustomerId, bs[n:])
	n += raw.Float64.Marshal(t.AmountPaid, bs[n:])
	n += timeMUS.Marshal(t.PurchaseDate, bs[n:])
	n += ord.Bool.Marshal(t.Returned, bs[n:])
	n += raw.Float64.Marshal(t.Rating, bs[n:])
	n += ord.String.Marshal(t.ReviewText, bs[n:])
	n += timeMUS.Marshal(t.InsertedAt, bs[n:])
	n += timeMUS.Marshal(t.UpdatedAt, bs[n:])
	return n
}

func (transactionSer) Unmarshal(bs []byte) (t core.Transaction, n int, err error) {
	var n1 int
	if t.Id, n, err = IDSer.Unmarshal(bs); err != nil {
		return t, n, err
	}
	if t.ProductId, n1, err = IDSer.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.CustomerId, n1, err = IDSer.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.AmountPaid, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.PurchaseDate, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.Returned, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.Rating, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.ReviewText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	if t.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	return t, n, nil
}

func (transactionSer) Size(t core.Transaction) (size int) {
	size = IDSer.Size(t.Id)
	size += IDSer.Size(t.ProductId)
	size += IDSer.Size(t.CustomerId)
	size += raw.Float64.Size(t.AmountPaid)
	size += timeMUS.Size(t.PurchaseDate)
	size += ord.Bool.Size(t.Returned)
	size += raw.Float64.Size(t.Rating)
	size += ord.String.Size(t.ReviewText)
	size += timeMUS.Size(t.InsertedAt)
	size += timeMUS.Size(t.UpdatedAt)
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDSer.Size(id))
	IDSer.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDSer.Unmarshal(data)
	return id, err
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, ProductSer.Size(*product))
	ProductSer.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := ProductSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// MarshalCustomer serializes a Customer to bytes.
func MarshalCustomer(customer *core.Customer) []byte {
	buf := make([]byte, CustomerSer.Size(*customer))
	CustomerSer.Marshal(*customer, buf)
	return buf
}

// UnmarshalCustomer deserializes a Customer from bytes.
func UnmarshalCustomer(data []byte) (*core.Customer, error) {
	customer, _, err := CustomerSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// MarshalTransaction serializes a Transaction to bytes.
func MarshalTransaction(txn *core.Transaction) []byte {
	buf := make([]byte, TransactionSer.Size(*txn))
	TransactionSer.Marshal(*txn, buf)
	return buf
}

// UnmarshalTransaction deserializes a Transaction from bytes.
func UnmarshalTransaction(data []byte) (*core.Transaction, error) {
	txn, _, err := TransactionSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
