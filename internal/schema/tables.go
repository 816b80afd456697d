package schema

var Customers = &Table{
	Name: "customers",
	Columns: []Column{
		{Name: "id", Type: UUID, PrimaryKey: true},
		{Name: "name", Type: Text, Size: 255},
	},
}

var Services = &Table{
	Name: "services",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "name", Type: Text, Size: 255},
		{Name: "description", Type: Text, Nullable: true},
	},
}

var CustomerServices = &Table{
	Name: "customer_services",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "customer_id", Type: UUID, References: &ForeignKey{Table: "customers", Column: "id"}},
		{Name: "service_id", Type: Integer, References: &ForeignKey{Table: "services", Column: "id"}},
	},
	Unique: [][]string{{"customer_id", "service_id"}},
}

var AOIs = &Table{
	Name: "aois",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "name", Type: Text},
		{Name: "geom", Type: Geometry, Shape: ShapePolygon},
		{Name: "customer_id", Type: UUID, References: &ForeignKey{Table: "customers", Column: "id"}},
		{Name: "country", Type: Text},
		{Name: "service_ids", Type: IntArray, Nullable: true},
	},
}

var NDVIStatistics = &Table{
	Name: "ndvi_statistics",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "aoi_id", Type: Integer, References: &ForeignKey{Table: "aois", Column: "id"}},
		{Name: "date", Type: Date},
		{Name: "min_ndvi", Type: Float},
		{Name: "max_ndvi", Type: Float},
		{Name: "median_ndvi", Type: Float},
		{Name: "created_at", Type: Timestamp},
		{Name: "change", Type: Float, Nullable: true},
	},
}

var AlgaeStatistics = &Table{
	Name: "algae_statistics",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "aoi", Type: Integer, References: &ForeignKey{Table: "aois", Column: "id"}},
		{Name: "datetime", Type: Timestamp},
		{Name: "min_value", Type: Float},
		{Name: "max_value", Type: Float},
		{Name: "mean_value", Type: Float},
	},
}

var Vessels = &Table{
	Name: "vessels",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "name", Type: Text, Size: 255},
		{Name: "type", Type: Text, Size: 100, Nullable: true},
		{Name: "classification", Type: Text, Size: 100, Nullable: true},
		{Name: "certainty", Type: Text, Size: 100, Nullable: true},
		{Name: "certainty_percentage", Type: Float, Nullable: true},
		{Name: "geom", Type: Geometry, Shape: ShapePoint},
		{Name: "aoi_id", Type: Integer, References: &ForeignKey{Table: "aois", Column: "id"}},
		{Name: "location_id", Type: Integer, Nullable: true},
		{Name: "order_date", Type: Date, Nullable: true},
	},
}

var OilSlicks = &Table{
	Name: "oil_slicks",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "type", Type: Text},
		{Name: "source_vessel", Type: Text, Nullable: true},
		{Name: "certainty_percentage", Type: Integer, Nullable: true},
		{Name: "geom", Type: Geometry, Shape: ShapePolygon},
	},
}

var Locations = &Table{
	Name: "locations",
	Columns: []Column{
		{Name: "id", Type: Serial, PrimaryKey: true},
		{Name: "name", Type: Text, Size: 255},
		{Name: "description", Type: Text, Nullable: true},
		{Name: "country", Type: Text, Size: 100, Nullable: true},
		{Name: "iso3", Type: Text, Size: 3, Nullable: true},
		{Name: "customer_id", Type: UUID, Nullable: true, References: &ForeignKey{Table: "customers", Column: "id"}},
		{Name: "coords", Type: Geometry, Shape: ShapeGeometry, Nullable: true},
		{Name: "countrycoords", Type: Geometry, Shape: ShapeGeometry, Nullable: true},
	},
}

// All returns every table in dependency order (referenced tables first).
func All() []*Table {
	return []*Table{
		Customers,
		Services,
		CustomerServices,
		AOIs,
		NDVIStatistics,
		AlgaeStatistics,
		Vessels,
		OilSlicks,
		Locations,
	}
}
